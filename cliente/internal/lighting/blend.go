package lighting

import rl "github.com/gen2brain/raylib-go/raylib"

// Equações e fatores de blend do OpenGL usados nos canais.
const (
	glFuncAdd             = 0x8006
	glMin                 = 0x8007
	glMax                 = 0x8008
	glOne                 = 1
	glZero                = 0
	glSrcColor            = 0x0300
	glOneMinusSrcColor    = 0x0301
	glDstColor            = 0x0306
)

// Channel identifica um dos três canais da fonte.
type Channel int

const (
	ChannelBackground Channel = iota
	ChannelIllumination
	ChannelColoration
)

// blendSpec descreve a configuração de blend de um desenho de canal.
type blendSpec struct {
	srcRGB, dstRGB     int32
	srcAlpha, dstAlpha int32
	eqRGB, eqAlpha     int32
}

// blendFor resolve o blend do canal: background acumula por MAX;
// iluminação acumula por MAX (luz) ou MIN (escuridão); coloração
// compõe por SCREEN (luz) ou MULTIPLY (escuridão).
func blendFor(channel Channel, isDarkness bool) blendSpec {
	switch channel {
	case ChannelBackground:
		return blendSpec{glOne, glOne, glOne, glOne, glMax, glMax}
	case ChannelIllumination:
		eq := int32(glMax)
		if isDarkness {
			eq = glMin
		}
		return blendSpec{glOne, glOne, glOne, glOne, eq, eq}
	default:
		if isDarkness {
			// MULTIPLY: dst = src * dst
			return blendSpec{glDstColor, glZero, glDstColor, glZero, glFuncAdd, glFuncAdd}
		}
		// SCREEN: dst = src + dst - src*dst
		return blendSpec{glOne, glOneMinusSrcColor, glOne, glOneMinusSrcColor, glFuncAdd, glFuncAdd}
	}
}

// apply ativa o blend customizado no pipeline do raylib.
func (b blendSpec) apply() {
	rl.SetBlendFactorsSeparate(b.srcRGB, b.dstRGB, b.srcAlpha, b.dstAlpha, b.eqRGB, b.eqAlpha)
	rl.BeginBlendMode(rl.BlendCustomSeparate)
}
