package checklist

import "time"

// SourceType names the tier a checklist definition (or resolution) belongs to.
type SourceType string

const (
	SourceCustom SourceType = "custom"
	SourceSkill  SourceType = "skill"
	SourceGlobal SourceType = "global"
	SourceNone   SourceType = "none"
)

// Item is the canonical checklist item shape. Incentive weights are optional:
// a nil pointer means "not applicable", never "zero incentive".
type Item struct {
	Label       string   `json:"label"`
	BonusPoints *float64 `json:"bonusPoints,omitempty"`
	FinePoints  *float64 `json:"finePoints,omitempty"`
	BonusAmount *float64 `json:"bonusCurrency,omitempty"`
	FineAmount  *float64 `json:"fineCurrency,omitempty"`
}

// Definition is a stored checklist configuration. Exactly one of Skills or
// EmployeeIDs is populated, matching Type; a global definition has neither.
type Definition struct {
	ID          int64      `json:"id"`
	Type        SourceType `json:"type"`
	Name        string     `json:"name,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	EmployeeIDs []int64    `json:"employee_ids,omitempty"`
	Items       []Item     `json:"items"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ResolvedItem is a checklist item annotated with the tier it came from.
type ResolvedItem struct {
	Label       string     `json:"label"`
	Source      SourceType `json:"type"`
	BonusPoints *float64   `json:"bonusPoints,omitempty"`
	FinePoints  *float64   `json:"finePoints,omitempty"`
	BonusAmount *float64   `json:"bonusCurrency,omitempty"`
	FineAmount  *float64   `json:"fineCurrency,omitempty"`
}

// Resolution is the outcome of resolving an employee's checklist.
type Resolution struct {
	Source       SourceType     `json:"sourceType"`
	DefinitionID int64          `json:"definition_id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Items        []ResolvedItem `json:"items"`
}

// Employee carries the identity and skill tags resolution operates on.
type Employee struct {
	ID     int64
	Skills []string
}
