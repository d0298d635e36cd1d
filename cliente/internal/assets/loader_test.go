package assets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// newTestLoader injeta um fetch falso; sem janela aberta as texturas
// não sobem para a GPU, mas a contabilidade do cache é a mesma.
func newTestLoader(fetch func(string) ([]byte, error)) *Loader {
	l := NewLoader(time.Minute, 0, false)
	l.fetch = fetch
	return l
}

func TestLoadLoteComProgresso(t *testing.T) {
	fetched := map[string]int{}
	l := newTestLoader(func(src string) ([]byte, error) {
		fetched[src]++
		if strings.Contains(src, "ruim") {
			return nil, errors.New("404")
		}
		return []byte{1}, nil
	})

	var last Progress
	calls := 0
	l.Load([]string{"a.png", "b.png", "a.png", "ruim.png", ""}, func(p Progress) {
		last = p
		calls++
	})

	if calls != 3 {
		t.Fatalf("progresso reportado %d vezes, esperado 3 (fontes únicas)", calls)
	}
	if last.Total != 3 || last.Loaded != 2 || last.Failed != 1 {
		t.Fatalf("progresso final: %+v", last)
	}
	if last.Pct != 1 {
		t.Fatalf("pct final = %v", last.Pct)
	}
}

func TestFalhaFicaRegistrada(t *testing.T) {
	calls := 0
	l := newTestLoader(func(src string) ([]byte, error) {
		calls++
		return nil, errors.New("fora do ar")
	})

	if err := l.LoadTexture("x.png"); err == nil {
		t.Fatal("primeira carga deveria falhar")
	}
	got := calls // busca + retry com cache-busting
	if got != 2 {
		t.Fatalf("fetch chamado %d vezes, esperado 2 (original + bust)", got)
	}

	if err := l.LoadTexture("x.png"); err == nil {
		t.Fatal("falha deveria ficar registrada")
	}
	if calls != got {
		t.Fatal("asset falho não deveria ser buscado de novo")
	}
}

func TestRetryComCacheBusting(t *testing.T) {
	calls := 0
	l := newTestLoader(func(src string) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("resposta podre")
		}
		if !strings.Contains(src, "bust=") {
			return nil, fmt.Errorf("retry sem cache-busting: %s", src)
		}
		return []byte{1}, nil
	})

	if err := l.LoadTexture("mapa.png"); err != nil {
		t.Fatalf("retry deveria salvar a carga: %v", err)
	}
}

func TestDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50})
	l := newTestLoader(func(string) ([]byte, error) {
		return nil, errors.New("data URL não deveria ir à rede")
	})

	data, err := l.resolve("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(data) != 2 || data[0] != 0x89 {
		t.Fatalf("bytes decodificados: %v", data)
	}

	if _, err := l.resolve("data:semvirgula"); err == nil {
		t.Fatal("data URL malformada deveria falhar")
	}
}

func TestSweepExpiraPorTTL(t *testing.T) {
	l := newTestLoader(func(string) ([]byte, error) { return []byte{1}, nil })
	l.LoadTexture("velha.png")
	l.LoadTexture("nova.png")

	// Envelhece só uma entrada
	l.mu.Lock()
	l.entries["velha.png"].lastUse = time.Now().Add(-2 * time.Minute)
	l.mu.Unlock()

	if removed := l.Sweep(time.Now()); removed != 1 {
		t.Fatalf("Sweep removeu %d, esperado 1", removed)
	}
	if l.Has("velha.png") || !l.Has("nova.png") {
		t.Fatal("Sweep removeu a entrada errada")
	}

	// Segundo Sweep não encontra nada vencido
	if removed := l.Sweep(time.Now()); removed != 0 {
		t.Fatal("entrada já descartada não pode ser descartada de novo")
	}
}

func TestGetRenovaUso(t *testing.T) {
	l := newTestLoader(func(string) ([]byte, error) { return []byte{1}, nil })
	l.LoadTexture("a.png")

	// Sem janela a textura não sobe; Get deve reportar ausência
	if _, ok := l.Get("a.png"); ok {
		t.Fatal("sem GPU não há textura pronta")
	}
	if !l.Has("a.png") || l.Len() != 1 {
		t.Fatal("asset deveria continuar registrado")
	}
}
