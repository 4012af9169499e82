package media

import (
	"fmt"

	"github.com/deppfellow/labstore/internal/validation"
)

// MaxEnergy caps RechargeEnergy.
const MaxEnergy = 100

const (
	swingCost = 80
	runCost   = 65
)

type Hero struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name" validate:"required,max=100"`
	HeroTitle string `json:"heroTitle" db:"hero_title" validate:"required,max=100"`
	Energy    int    `json:"energy" db:"energy" validate:"gte=0"`
}

func (h Hero) Validate() error {
	return validation.Struct(h)
}

// RechargeEnergy adds amount to the energy, capped at MaxEnergy.
func (h *Hero) RechargeEnergy(amount int) {
	h.Energy = min(h.Energy+amount, MaxEnergy)
}

// spend takes cost out of the energy. Energy that would land exactly on
// zero stays at 1.
func (h *Hero) spend(cost int) {
	h.Energy -= cost
	if h.Energy == 0 {
		h.Energy = 1
	}
}

// SpiderHero is the web-slinging view over a stored hero.
type SpiderHero struct {
	*Hero
}

// SwingFromBuildings spends the swing cost and reports whether the hero
// changed. A hero without enough energy is left untouched.
func (h SpiderHero) SwingFromBuildings() (string, bool) {
	if h.Energy-swingCost < 0 {
		return fmt.Sprintf("%s as Spider Hero is out of web shooter fluid", h.Name), false
	}

	h.spend(swingCost)
	return fmt.Sprintf("%s as Spider Hero swings from buildings using web shooters", h.Name), true
}

// FlashHero is the speedster view over a stored hero.
type FlashHero struct {
	*Hero
}

// RunAtSuperSpeed spends the run cost and reports whether the hero changed.
func (h FlashHero) RunAtSuperSpeed() (string, bool) {
	if h.Energy < runCost {
		return fmt.Sprintf("%s as Flash Hero needs to recharge the speed force", h.Name), false
	}

	h.spend(runCost)
	return fmt.Sprintf("%s as Flash Hero runs at lightning speed, saving the day", h.Name), true
}
