package perception

import (
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
)

// Modos de detecção, avaliados na ordem de registro do observador.
const (
	DetectBasicSight      = "basicSight"
	DetectSeeInvisibility = "seeInvisibility"
	DetectFeelTremor      = "feelTremor"
	DetectSeeAll          = "seeAll"
)

// Observer liga uma fonte de visão ativa ao token que a emite.
type Observer struct {
	Source *sources.Source
	Token  *docs.TokenData
}

// Target descreve o que está sendo testado. Doc é nil para testes de
// ponto puro (ex.: porta, marcador de régua).
type Target struct {
	X, Y float64
	Doc  *docs.PlaceableDoc
}

// detectionPredicate decide se um modo consegue perceber o alvo,
// assumindo que o requisito geométrico (LOS) já passou.
type detectionPredicate func(observer *docs.TokenData, target Target) bool

var detectionModes = map[string]detectionPredicate{
	DetectBasicSight: func(observer *docs.TokenData, target Target) bool {
		if tok := targetToken(target); tok != nil && tok.Invisible {
			return observer != nil && observer.SeeInvisible
		}
		return true
	},
	DetectSeeInvisibility: func(observer *docs.TokenData, target Target) bool {
		return true // enxerga visíveis e invisíveis
	},
	DetectFeelTremor: func(observer *docs.TokenData, target Target) bool {
		if tok := targetToken(target); tok != nil && tok.Flying {
			return false // vibração não alcança alvos fora do chão
		}
		if tok := targetToken(target); tok != nil && tok.Invisible {
			return true // tremor ignora invisibilidade
		}
		return true
	},
	DetectSeeAll: func(observer *docs.TokenData, target Target) bool {
		return true
	},
}

func targetToken(target Target) *docs.TokenData {
	if target.Doc == nil {
		return nil
	}
	return target.Doc.Token
}

// observerModes devolve os modos do token na ordem configurada,
// garantindo a visão básica como primeiro modo implícito.
func observerModes(tok *docs.TokenData) []string {
	if tok == nil || len(tok.DetectionModes) == 0 {
		return []string{DetectBasicSight}
	}
	modes := make([]string, 0, len(tok.DetectionModes)+1)
	modes = append(modes, DetectBasicSight)
	for _, m := range tok.DetectionModes {
		if m != DetectBasicSight {
			modes = append(modes, m)
		}
	}
	return modes
}

// TestVisibility decide se o alvo é visível para algum observador.
//
// Sem visão de token na cena tudo é visível. Caso contrário o alvo
// precisa estar no LOS de alguma fonte de visão (ou iluminado por uma
// fonte de luz ativa, para visão básica) e passar no predicado de um
// dos modos de detecção do observador, avaliados em ordem.
func TestVisibility(scene *docs.SceneDoc, observers []Observer, lights *sources.Collection, target Target) bool {
	if scene == nil || !scene.TokenVision {
		return true
	}
	if len(observers) == 0 {
		return false
	}

	lit := false
	if lights != nil {
		lights.Active(func(s *sources.Source) {
			if lit || s.IsDarkness {
				return
			}
			if s.ContainsPoint(target.X, target.Y) {
				lit = true
			}
		})
	}

	for _, obs := range observers {
		if obs.Source == nil || obs.Source.Disabled() {
			continue
		}
		inLOS := obs.Source.ContainsPoint(target.X, target.Y)
		for _, mode := range observerModes(obs.Token) {
			predicate, known := detectionModes[mode]
			if !known {
				continue
			}
			// Visão básica também percebe alvos iluminados fora do
			// alcance próprio; modos especiais exigem o LOS da fonte.
			reach := inLOS
			if mode == DetectBasicSight && lit {
				reach = true
			}
			if reach && predicate(obs.Token, target) {
				return true
			}
		}
	}
	return false
}
