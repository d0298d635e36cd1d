package lighting

import "log"

// DarknessAnimation interpola o nível de escuridão da cena de forma
// monótona. Uma nova chamada cancela a animação corrente e parte do
// nível já atingido; duração zero aplica o alvo imediatamente.
type DarknessAnimation struct {
	current  float64
	target   float64
	speed    float64 // unidades de nível por segundo
	active   bool
	OnChange func(level float64)
}

// NewDarknessAnimation cria o animador parado em um nível inicial.
func NewDarknessAnimation(level float64) *DarknessAnimation {
	return &DarknessAnimation{current: clamp01(level), target: clamp01(level)}
}

// Level devolve o nível corrente (possivelmente no meio da animação).
func (d *DarknessAnimation) Level() float64 { return d.current }

// Animating informa se há transição em andamento.
func (d *DarknessAnimation) Animating() bool { return d.active }

// Animate inicia (ou substitui) a transição para o alvo em duration
// segundos. Duração não positiva aplica na hora.
func (d *DarknessAnimation) Animate(target, duration float64) {
	target = clamp01(target)
	if duration <= 0 || target == d.current {
		d.current = target
		d.target = target
		d.active = false
		if d.OnChange != nil {
			d.OnChange(d.current)
		}
		return
	}
	if d.active {
		log.Printf("[Lighting] Animação de escuridão substituída: alvo %.2f", target)
	}
	d.target = target
	d.speed = abs(target-d.current) / duration
	d.active = true
}

// Advance avança dt segundos e devolve o nível corrente e se ainda há
// transição. O movimento é monótono na direção do alvo.
func (d *DarknessAnimation) Advance(dt float64) (float64, bool) {
	if !d.active {
		return d.current, false
	}
	step := d.speed * dt
	if d.target > d.current {
		d.current += step
		if d.current >= d.target {
			d.current = d.target
			d.active = false
		}
	} else {
		d.current -= step
		if d.current <= d.target {
			d.current = d.target
			d.active = false
		}
	}
	if d.OnChange != nil {
		d.OnChange(d.current)
	}
	return d.current, d.active
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
