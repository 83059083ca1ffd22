package dex

import (
	"github.com/DatSpookTho/Lanette/internal/data"
)

// Types returns the type names of the chart in declaration order.
func (d *Dex) Types() []string {
	ids := d.table.TypeChart.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.table.TypeChart.Key(id))
	}
	return out
}

// TypeName returns the display name of the type called name.
func (d *Dex) TypeName(name string) (string, bool) {
	id := data.ToID(name)
	if !d.table.TypeChart.Has(id) {
		return "", false
	}
	return d.table.TypeChart.Key(id), true
}

func (d *Dex) damageTaken(attackType, defType string) int {
	t, ok := d.table.TypeChart.Get(data.ToID(defType))
	if !ok {
		return DamageNeutral
	}
	name, ok := d.TypeName(attackType)
	if !ok {
		return DamageNeutral
	}
	return t.DamageTaken[name]
}

// IsImmune reports whether any of defTypes is immune to attackType.
func (d *Dex) IsImmune(attackType string, defTypes []string) bool {
	for _, t := range defTypes {
		if d.damageTaken(attackType, t) == DamageImmune {
			return true
		}
	}
	return false
}

// Effectiveness returns the summed effectiveness of attackType against
// defTypes: +1 per weakness, -1 per resistance. Immunity is not folded in.
func (d *Dex) Effectiveness(attackType string, defTypes []string) int {
	total := 0
	for _, t := range defTypes {
		switch d.damageTaken(attackType, t) {
		case DamageWeak:
			total++
		case DamageResist:
			total--
		}
	}
	return total
}

// Weaknesses returns the attacking types s is weak to, in chart order.
func (d *Dex) Weaknesses(s *Species) []string {
	var out []string
	for _, t := range d.Types() {
		if d.IsImmune(t, s.Types) {
			continue
		}
		if d.Effectiveness(t, s.Types) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Resistances returns the attacking types s resists or is immune to, in
// chart order.
func (d *Dex) Resistances(s *Species) []string {
	var out []string
	for _, t := range d.Types() {
		if d.IsImmune(t, s.Types) || d.Effectiveness(t, s.Types) < 0 {
			out = append(out, t)
		}
	}
	return out
}
