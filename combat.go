package hexwar40k

// WeaponProfile is the subset of a unit's stats relevant to a single
// attack resolution, selected by the caller from either the ranged or
// melee block (RNG_* or CC_*).
type WeaponProfile struct {
	Atk int
	Str int
	AP  int
	Dmg int
}

// CombatOutcome records the result of resolving one shot/attack.
type CombatOutcome struct {
	Hit     bool
	Wound   bool
	Saved   bool
	Damage  int
	Killed  bool
	HitRoll, WoundRoll, SaveRoll int
}

// woundTarget implements spec.md §4.3's strength-vs-toughness table.
func woundTarget(str, toughness int) int {
	switch {
	case str >= 2*toughness:
		return 2
	case str > toughness:
		return 3
	case str == toughness:
		return 4
	case 2*str <= toughness:
		return 6
	default: // str < toughness
		return 5
	}
}

// ResolveAttack runs the hit -> wound -> save -> damage pipeline for
// one shot or melee swing and mutates defender's HP_CUR in place.
// rng must be the episode's single PRNG (spec.md: "all rolls use a
// single PRNG seeded from reset(seed)").
func ResolveAttack(rng *Rand, weapon WeaponProfile, defender *Unit) CombatOutcome {
	var out CombatOutcome

	out.HitRoll = rng.D6()
	hitTarget := 7 - weapon.Atk
	out.Hit = out.HitRoll >= hitTarget
	if !out.Hit {
		return out
	}

	out.WoundRoll = rng.D6()
	wTarget := woundTarget(weapon.Str, defender.Stats.Toughness)
	out.Wound = out.WoundRoll >= wTarget
	if !out.Wound {
		return out
	}

	out.SaveRoll = rng.D6()
	saveTarget := defender.Stats.ArmorSave + weapon.AP
	// INVUL_SAVE == 0 means "no invulnerable save"; only a positive
	// value can tighten the target below the modified armor save.
	if defender.Stats.InvulSave > 0 && defender.Stats.InvulSave < saveTarget {
		saveTarget = defender.Stats.InvulSave
	}
	out.Saved = out.SaveRoll >= saveTarget
	if out.Saved {
		return out
	}

	out.Damage = weapon.Dmg
	defender.HPCur -= out.Damage
	if defender.HPCur < 0 {
		defender.HPCur = 0
	}
	out.Killed = defender.HPCur == 0
	return out
}

// RangedProfile extracts the attacker's ranged weapon profile.
func RangedProfile(u *Unit) WeaponProfile {
	return WeaponProfile{Atk: u.Stats.RngAtk, Str: u.Stats.RngStr, AP: u.Stats.RngAP, Dmg: u.Stats.RngDmg}
}

// MeleeProfile extracts the attacker's melee weapon profile.
func MeleeProfile(u *Unit) WeaponProfile {
	return WeaponProfile{Atk: u.Stats.CCAtk, Str: u.Stats.CCStr, AP: u.Stats.CCAP, Dmg: u.Stats.CCDmg}
}
