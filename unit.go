package hexwar40k

// Stats holds the immutable archetype profile resolved from the unit
// registry at scenario load. Field names mirror the uppercase stat
// keys spec.md §3/§6 requires the registry to carry; JSON tags
// preserve that wire contract while Go code uses idiomatic names.
type Stats struct {
	HPMax     int `json:"HP_MAX"`
	Move      int `json:"MOVE"`
	Toughness int `json:"T"`
	ArmorSave int `json:"ARMOR_SAVE"`
	InvulSave int `json:"INVUL_SAVE"`

	RngNb  int `json:"RNG_NB"`
	RngRng int `json:"RNG_RNG"`
	RngAtk int `json:"RNG_ATK"`
	RngStr int `json:"RNG_STR"`
	RngAP  int `json:"RNG_AP"`
	RngDmg int `json:"RNG_DMG"`

	CCNb  int `json:"CC_NB"`
	CCRng int `json:"CC_RNG"`
	CCAtk int `json:"CC_ATK"`
	CCStr int `json:"CC_STR"`
	CCAP  int `json:"CC_AP"`
	CCDmg int `json:"CC_DMG"`

	OC    int `json:"OC"`
	LD    int `json:"LD"`
	Value int `json:"VALUE"`
}

// Unit is a runtime unit: identity and position are mutable through
// play, Stats is immutable once the unit is created from the
// registry (invariant: stat fields are immutable after scenario
// load).
type Unit struct {
	ID       string `json:"id"`
	Player   int    `json:"player"`
	UnitType string `json:"unit_type"`
	Col      int    `json:"col"`
	Row      int    `json:"row"`

	HPCur int `json:"HP_CUR"`

	ShootLeft  int `json:"SHOOT_LEFT"`
	AttackLeft int `json:"ATTACK_LEFT"`

	Stats Stats `json:"-"`
}

// Hex returns the unit's current position.
func (u *Unit) Hex() Hex { return Hex{Col: u.Col, Row: u.Row} }

// Alive reports whether the unit still has health remaining
// (invariant: a unit is alive iff HP_CUR > 0).
func (u *Unit) Alive() bool { return u.HPCur > 0 }

// resetActivationCounters restores per-activation counters at the
// start of a player's turn; called by the movement handler's
// PhaseStart.
func (u *Unit) resetActivationCounters() {
	u.ShootLeft = u.Stats.RngNb
	u.AttackLeft = u.Stats.CCNb
}
