package domain

import "time"

type MedicineID string
type AdID string
type MessageID string

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// MedicineType is stored with its Arabic label as the wire value,
// matching what the storefront displays.
type MedicineType string

const (
	TypeTablet      MedicineType = "برشام"
	TypeSyrup       MedicineType = "شراب"
	TypeInjection   MedicineType = "حقنة"
	TypeSuppository MedicineType = "لبوس"
	TypeSupplies    MedicineType = "مستلزمات"
)

// AllMedicineTypes lists every valid type, in display order.
var AllMedicineTypes = []MedicineType{
	TypeTablet,
	TypeSyrup,
	TypeInjection,
	TypeSuppository,
	TypeSupplies,
}

// ValidMedicineType reports whether t is one of the known types.
func ValidMedicineType(t MedicineType) bool {
	for _, known := range AllMedicineTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Timestamp = time.Time
