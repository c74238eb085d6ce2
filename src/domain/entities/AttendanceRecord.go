package entities

import (
	"encoding/json"
	"time"
)

type AttendanceKey string

const (
	AttendanceCelula     AttendanceKey = "celula"
	AttendanceCulto      AttendanceKey = "culto"
	AttendanceSeminario  AttendanceKey = "seminario"
	AttendanceConvencion AttendanceKey = "convencion"
)

// Registro de presença de um membro em um tipo de reunião, agregado por
// data de referência. O valor é JSON livre (presente, visitas, oferta...).
type AttendanceRecord struct {
	MemberID       int64           `json:"member_id"`
	Key            AttendanceKey   `json:"key"`
	Value          json.RawMessage `json:"value"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	ReferenceDate  time.Time       `json:"reference_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
