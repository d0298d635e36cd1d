package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"TabletopVision/cliente/internal/app"
	"TabletopVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	serverURL := flag.String("server", "", "URL do servidor de mesa (padrão: ws://127.0.0.1:30000/ws)")
	user := flag.String("user", "", "ID do usuário nesta sessão")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Log em arquivo, para diagnóstico fora do terminal
	f, err := os.OpenFile("debug_tv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
	}
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("--- INICIANDO TABLETOPVISION ---")

	cfg := config.Load()

	// Flags de linha de comando sobrescrevem o config salvo
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *user != "" {
		cfg.UserID = *user
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	application := app.New(cfg)
	application.Run()
}
