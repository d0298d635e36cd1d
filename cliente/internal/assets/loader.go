// Package assets carrega texturas de cena por URL (ou data URL) e as
// mantém em um cache com TTL: texturas sem uso recente são descartadas
// da GPU para conter a memória em cenas grandes.
package assets

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultTTL é a validade padrão de uma textura sem uso.
const DefaultTTL = 15 * time.Minute

// DefaultTimeout é o prazo mínimo de uma busca remota.
const DefaultTimeout = 15 * time.Second

// Progress reporta o andamento de um lote de carregamento.
type Progress struct {
	Loaded int
	Failed int
	Total  int
	Pct    float64
	Src    string // último asset processado
}

// entry é um asset residente: bytes decodificáveis + textura na GPU.
type entry struct {
	tex     rl.Texture2D
	ready   bool // textura criada na GPU
	failed  bool
	lastUse time.Time
}

// Loader busca e guarda texturas por URL de origem.
type Loader struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	mipmap  bool

	// fetch é substituível em teste; o padrão usa HTTP com timeout.
	fetch  func(src string) ([]byte, error)
	client *http.Client
}

// NewLoader cria o cache de texturas.
func NewLoader(ttl, timeout time.Duration, mipmap bool) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if timeout < DefaultTimeout {
		timeout = DefaultTimeout
	}
	l := &Loader{
		entries: make(map[string]*entry),
		ttl:     ttl,
		mipmap:  mipmap,
		client:  &http.Client{Timeout: timeout},
	}
	l.fetch = l.fetchHTTP
	return l
}

// Load busca um lote de fontes, reportando progresso após cada uma.
// Fontes repetidas ou já residentes contam como carregadas.
func (l *Loader) Load(srcs []string, onProgress func(Progress)) {
	seen := make(map[string]bool, len(srcs))
	unique := srcs[:0:0]
	for _, src := range srcs {
		if src != "" && !seen[src] {
			seen[src] = true
			unique = append(unique, src)
		}
	}

	p := Progress{Total: len(unique)}
	for _, src := range unique {
		if err := l.LoadTexture(src); err != nil {
			p.Failed++
			log.Printf("[Assets] Falha ao carregar %s: %v", src, err)
		} else {
			p.Loaded++
		}
		p.Src = src
		p.Pct = float64(p.Loaded+p.Failed) / float64(p.Total)
		if onProgress != nil {
			onProgress(p)
		}
	}
}

// LoadTexture garante um asset residente. Falhas ficam registradas
// para não repetir a busca a cada quadro.
func (l *Loader) LoadTexture(src string) error {
	l.mu.Lock()
	if e, ok := l.entries[src]; ok {
		e.lastUse = time.Now()
		failed := e.failed
		l.mu.Unlock()
		if failed {
			return fmt.Errorf("asset %s já falhou nesta sessão", src)
		}
		return nil
	}
	l.mu.Unlock()

	data, err := l.resolve(src)
	e := &entry{lastUse: time.Now()}
	if err != nil {
		e.failed = true
	} else if rl.IsWindowReady() {
		e.tex, err = l.uploadTexture(src, data)
		if err != nil {
			e.failed = true
		} else {
			e.ready = true
		}
	}

	l.mu.Lock()
	l.entries[src] = e
	l.mu.Unlock()
	return err
}

// resolve obtém os bytes de um asset: data URL embutida ou busca
// remota. Buscas remotas que falham ganham uma única repetição com
// query de cache-busting, contornando respostas intermediárias podres.
func (l *Loader) resolve(src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		idx := strings.Index(src, ",")
		if idx < 0 {
			return nil, fmt.Errorf("data URL malformada")
		}
		return base64.StdEncoding.DecodeString(src[idx+1:])
	}

	data, err := l.fetch(src)
	if err == nil {
		return data, nil
	}

	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	retry := src + sep + fmt.Sprintf("bust=%d", time.Now().UnixNano())
	if data, retryErr := l.fetch(retry); retryErr == nil {
		return data, nil
	}
	return nil, err
}

func (l *Loader) fetchHTTP(src string) ([]byte, error) {
	resp, err := l.client.Get(src)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// videoExtensions são formatos que o cliente não decodifica; tiles de
// vídeo rebaixam para um quadro estático quando disponível.
var videoExtensions = map[string]bool{".webm": true, ".mp4": true, ".m4v": true, ".ogv": true}

// uploadTexture decodifica os bytes e sobe a textura para a GPU.
func (l *Loader) uploadTexture(src string, data []byte) (rl.Texture2D, error) {
	ext := strings.ToLower(path.Ext(srcPath(src)))
	if videoExtensions[ext] {
		// Sem decodificador de vídeo: tenta o quadro de capa .webp
		still := strings.TrimSuffix(src, ext) + ".webp"
		if data2, err := l.fetch(still); err == nil {
			data, ext = data2, ".webp"
		} else {
			return rl.Texture2D{}, fmt.Errorf("formato de vídeo sem quadro estático: %s", ext)
		}
	}
	if ext == "" {
		ext = ".png"
	}

	img := rl.LoadImageFromMemory(ext, data, int32(len(data)))
	if img.Width == 0 || img.Height == 0 {
		return rl.Texture2D{}, fmt.Errorf("imagem indecodificável (%s)", ext)
	}
	defer rl.UnloadImage(img)

	tex := rl.LoadTextureFromImage(img)
	if tex.ID == 0 {
		return rl.Texture2D{}, fmt.Errorf("falha ao subir textura para a GPU")
	}
	if l.mipmap {
		rl.GenTextureMipmaps(&tex)
		rl.SetTextureFilter(tex, rl.FilterTrilinear)
	} else {
		rl.SetTextureFilter(tex, rl.FilterBilinear)
	}
	return tex, nil
}

// srcPath extrai o caminho de uma URL para inspeção de extensão.
func srcPath(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return u.Path
	}
	return src
}

// Get devolve a textura residente de um asset e renova seu uso.
func (l *Loader) Get(src string) (rl.Texture2D, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[src]
	if !ok || !e.ready {
		return rl.Texture2D{}, false
	}
	e.lastUse = time.Now()
	return e.tex, true
}

// Has informa se o asset está registrado (carregado ou falho).
func (l *Loader) Has(src string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[src]
	return ok
}

// Len retorna o número de assets registrados.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep descarta assets sem uso há mais que o TTL, descarregando a
// textura da GPU exatamente uma vez. Chamado periodicamente pelo loop.
func (l *Loader) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for src, e := range l.entries {
		if now.Sub(e.lastUse) < l.ttl {
			continue
		}
		if e.ready && e.tex.ID != 0 && rl.IsWindowReady() {
			rl.UnloadTexture(e.tex)
		}
		delete(l.entries, src)
		removed++
	}
	if removed > 0 {
		log.Printf("[Assets] %d texturas expiradas descartadas", removed)
	}
	return removed
}

// Clear descarta todos os assets imediatamente (desmonte da cena não
// limpa o cache; isto é para o encerramento do cliente).
func (l *Loader) Clear() {
	l.Sweep(time.Now().Add(l.ttl * 2))
}
