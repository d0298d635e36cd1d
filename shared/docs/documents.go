// Package docs define a projeção somente-leitura dos documentos de cena
// (tokens, paredes, luzes, sons...) consumida pelo motor de renderização,
// e o feed de mutações vindo do transporte. Nenhuma persistência de
// autoridade acontece aqui; o servidor é a fonte da verdade.
package docs

import "math"

// Kind identifica o tipo de documento posicionável.
type Kind string

const (
	KindToken    Kind = "token"
	KindTile     Kind = "tile"
	KindDrawing  Kind = "drawing"
	KindWall     Kind = "wall"
	KindLight    Kind = "light"
	KindSound    Kind = "sound"
	KindTemplate Kind = "template"
	KindNote     Kind = "note"
)

// AllKinds lista os tipos na ordem canônica de desenho.
var AllKinds = []Kind{
	KindTile, KindDrawing, KindTemplate, KindWall,
	KindLight, KindSound, KindNote, KindToken,
}

// Action identifica a mutação aplicada a um documento.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
)

// SceneDoc é a projeção renderizável de uma cena.
type SceneDoc struct {
	ID   string
	Name string

	// Dimensões do retângulo jogável e da moldura externa
	SceneX      float64
	SceneY      float64
	SceneWidth  float64
	SceneHeight float64
	Size        float64 // lado de uma célula do grid em pixels
	Distance    float64 // unidades de jogo por célula

	Background string // URL da textura de fundo
	Foreground string // URL da textura de primeiro plano
	ForegroundElevation float64

	DarknessLevel float64 // [0,1]
	GlobalLight   bool
	TokenVision   bool
}

// Rect retorna o retângulo jogável da cena.
func (s *SceneDoc) Rect() (x, y, w, h float64) {
	return s.SceneX, s.SceneY, s.SceneWidth, s.SceneHeight
}

// MaxR é o raio máximo útil de uma fonte dentro da cena (diagonal).
func (s *SceneDoc) MaxR() float64 {
	return math.Hypot(s.SceneWidth, s.SceneHeight)
}

// PlaceableDoc é o documento comum a todos os posicionáveis; o payload
// específico de cada variante fica nos ponteiros opcionais.
type PlaceableDoc struct {
	ID        string
	Kind      Kind
	X, Y      float64
	Elevation float64 // apenas tokens e tiles usam; +Inf = luz global
	Hidden    bool
	Sort      int
	Locked    bool

	Light    *LightData
	Token    *TokenData
	Wall     *WallData
	Tile     *TileData
	Sound    *SoundData
	Drawing  *DrawingData
	Template *TemplateData
	Note     *NoteData
}

// LightData descreve uma fonte de luz (ou escuridão, com Luminosity < 0).
type LightData struct {
	Dim        float64 // raio do anel fraco
	Bright     float64 // raio do anel forte
	Angle      float64 // abertura em graus (360 = omnidirecional)
	Rotation   float64
	Color      string // "#rrggbb"; vazio = branco
	Alpha      float64
	Luminosity float64 // [-1,1]; negativo = escuridão
	Walls      bool    // restringida por paredes
	Attenuation float64
	Contrast    float64
	Saturation  float64
	Shadows     float64

	// Janela de escuridão em que a fonte fica ativa (inclusiva nas bordas)
	DarknessMin float64
	DarknessMax float64

	AnimationType      string // "", "flame", "torch", "pulse", "time"
	AnimationSpeed     float64
	AnimationIntensity float64
	AnimationReverse   bool
	AnimationSeed      int64
}

// TokenData descreve um token de criatura.
type TokenData struct {
	Name        string
	Width       float64 // em células do grid
	Height      float64
	Texture     string
	Rotation    float64
	Vision      bool
	VisionMode  string // "", "darkvision", "monochromatic"
	DimSight    float64
	BrightSight float64
	SightAngle  float64
	Light       *LightData // luz emitida pelo próprio token
	Invisible   bool
	Flying      bool
	SeeInvisible bool
	DetectionModes []string
}

// WallData descreve um segmento de parede com dois extremos.
type WallData struct {
	X1, Y1 float64
	X2, Y2 float64

	BlocksMove  bool
	BlocksSight bool
	BlocksSound bool

	Door      int // 0 = parede, 1 = porta, 2 = porta secreta
	DoorState int // 0 = fechada, 1 = aberta, 2 = trancada
}

// IsOpenDoor indica se a parede é uma porta aberta (não bloqueia nada).
func (w *WallData) IsOpenDoor() bool {
	return w.Door > 0 && w.DoorState == 1
}

// OcclusionMode controla como um tile esconde tokens sob ele.
type OcclusionMode int

const (
	OcclusionNone OcclusionMode = iota
	OcclusionFade
	OcclusionRadial
	OcclusionVision
)

// TileData descreve um tile de sobreposição (pisos, telhados).
type TileData struct {
	Width     float64
	Height    float64
	Texture   string
	Rotation  float64
	Alpha     float64
	Occlusion OcclusionMode
	Roof      bool
}

// SoundData descreve uma fonte de som ambiente.
type SoundData struct {
	Path   string
	Volume float64
	Radius float64
	Walls  bool
	Easing bool

	DarknessMin float64
	DarknessMax float64
}

// DrawingData descreve um desenho à mão livre ou forma.
type DrawingData struct {
	Width       float64
	Height      float64
	StrokeColor string
	StrokeWidth float64
	FillColor   string
	Text        string
}

// TemplateData descreve um gabarito de medição (cone, círculo, raio...).
type TemplateData struct {
	Shape     string // "circle", "cone", "ray", "rect"
	Distance  float64
	Direction float64
	Angle     float64
	Width     float64
	FillColor string
}

// NoteData descreve um marcador de anotação de diário.
type NoteData struct {
	Icon string
	Text string
}

// User é o usuário corrente visto pelo núcleo.
type User struct {
	ID          string
	Name        string
	IsGM        bool
	Permissions map[string]bool
}

// Can verifica uma permissão nomeada; o GM sempre pode.
func (u User) Can(permission string) bool {
	if u.IsGM {
		return true
	}
	return u.Permissions[permission]
}
