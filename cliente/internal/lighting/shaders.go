package lighting

// Shaders GLSL dos três canais. Todos compartilham o vertex shader
// padrão e recebem os uniforms comuns (centro/raio da fonte, ratio,
// attenuation) mais os específicos do canal.

const vertexShader = `
#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;
uniform mat4 mvp;
out vec2 fragTexCoord;
out vec4 fragColor;
out vec2 worldPos;
void main() {
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    worldPos = vertexPosition.xy;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

// backgroundShader ilumina a textura de fundo dentro do LOS da fonte,
// aplicando exposição, contraste, saturação e sombras.
const backgroundShader = `
#version 330
in vec2 fragTexCoord;
in vec2 worldPos;
out vec4 finalColor;

uniform sampler2D texture0;
uniform vec2 center;
uniform float radius;
uniform float ratio;
uniform float attenuation;
uniform float exposure;
uniform float contrast;
uniform float saturation;
uniform float shadows;
uniform vec2 screenDimensions;

float falloff(float dist) {
    float u = clamp(dist / radius, 0.0, 1.0);
    float edge = 1.0 - smoothstep(1.0 - attenuation, 1.0, u);
    return edge;
}

void main() {
    vec2 uv = gl_FragCoord.xy / screenDimensions;
    vec4 base = texture(texture0, uv);
    float dist = distance(worldPos, center);
    if (dist > radius) discard;

    vec3 c = base.rgb * (1.0 + exposure);
    c = (c - 0.5) * (1.0 + contrast) + 0.5;
    float grey = dot(c, vec3(0.299, 0.587, 0.114));
    c = mix(vec3(grey), c, 1.0 + saturation);
    c = mix(c, c * (1.0 - shadows), smoothstep(0.0, 1.0, dist / radius));

    finalColor = vec4(clamp(c, 0.0, 1.0), falloff(dist));
}
`

// illuminationShader pinta o gradiente radial colorDim→colorBright do
// canal de iluminação.
const illuminationShader = `
#version 330
in vec2 worldPos;
out vec4 finalColor;

uniform vec2 center;
uniform float radius;
uniform float ratio;
uniform float attenuation;
uniform vec3 colorDim;
uniform vec3 colorBright;

void main() {
    float dist = distance(worldPos, center);
    if (dist > radius) discard;
    float u = dist / radius;

    vec3 c = (u <= ratio)
        ? colorBright
        : mix(colorBright, colorDim, smoothstep(ratio, 1.0, u));
    float edge = 1.0 - smoothstep(1.0 - attenuation, 1.0, u);
    finalColor = vec4(c * edge, 1.0);
}
`

// colorationShader aplica a técnica de coloração selecionada com a
// curva de alpha própria do canal.
const colorationShader = `
#version 330
in vec2 worldPos;
out vec4 finalColor;

uniform vec2 center;
uniform float radius;
uniform float ratio;
uniform float attenuation;
uniform vec3 tintColor;
uniform float colorAlpha;
uniform float technique;
uniform float time;
uniform float intensity;

void main() {
    float dist = distance(worldPos, center);
    if (dist > radius) discard;
    float u = dist / radius;
    float edge = 1.0 - smoothstep(1.0 - attenuation, 1.0, u);

    vec3 c = tintColor;
    if (technique > 0.5 && technique < 1.5) {
        // pulso radial animado
        float wave = 0.5 + 0.5 * cos(u * 6.2831 - time);
        c *= mix(1.0, wave, intensity * 0.1);
    } else if (technique > 1.5) {
        // anel forte no raio bright
        float ring = 1.0 - smoothstep(0.0, 0.15, abs(u - ratio));
        c = mix(c * 0.6, c, ring);
    }

    float a = colorAlpha * edge * (1.0 - u * 0.5);
    finalColor = vec4(c * a, a);
}
`
