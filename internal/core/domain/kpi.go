package domain

import "time"

// KPIStatus is the outcome of evaluating a result against its KPI target.
type KPIStatus string

const (
	KPIAchieved    KPIStatus = "Achieved"
	KPINotAchieved KPIStatus = "Not Achieved"
)

// DefaultWeightage applies when a KPI is created without an explicit weight.
const DefaultWeightage = 1.0

// KPI is a measurable target, optionally scoped to a department.
type KPI struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Target     float64 `json:"target"`
	Weightage  float64 `json:"weightage"`
	Department *string `json:"department"`
}

// KPIResult records how an employee performed against a KPI.
type KPIResult struct {
	ID            int64     `json:"id"`
	KPIID         int64     `json:"kpi_id"`
	EmployeeID    int64     `json:"employee_id"`
	AchievedValue float64   `json:"achieved_value"`
	Status        KPIStatus `json:"status"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

// Evaluate scores an achieved value: the achieved fraction of the target,
// weighted and expressed as a percentage. A non-positive target scores zero.
func (k *KPI) Evaluate(achieved float64) (KPIStatus, float64) {
	var fraction float64
	if k.Target > 0 {
		fraction = achieved / k.Target
	}
	status := KPINotAchieved
	if fraction >= 1 {
		status = KPIAchieved
	}
	return status, fraction * k.Weightage * 100
}
