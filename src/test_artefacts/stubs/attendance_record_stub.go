package stubs

import (
	"encoding/json"
	"time"

	"discipulado/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type AttendanceRecordStub struct {
	record entities.AttendanceRecord
}

func NewAttendanceRecordStub() AttendanceRecordStub {
	now := time.Now().UTC()

	value := map[string]interface{}{
		"presente": true,
		"visitas":  gofakeit.Number(0, 5),
	}
	valueJSON, _ := json.Marshal(value)

	record := entities.AttendanceRecord{
		MemberID:       gofakeit.Int64(),
		Key:            entities.AttendanceCelula,
		Value:          valueJSON,
		IdempotencyKey: gofakeit.UUID(),
		ReferenceDate:  now.AddDate(0, 0, -7), // Semana passada
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return AttendanceRecordStub{record: record}
}

func (ars AttendanceRecordStub) WithMemberID(memberID int64) AttendanceRecordStub {
	ars.record.MemberID = memberID
	return ars
}

func (ars AttendanceRecordStub) WithKey(key entities.AttendanceKey) AttendanceRecordStub {
	ars.record.Key = key
	return ars
}

func (ars AttendanceRecordStub) WithValue(value interface{}) AttendanceRecordStub {
	valueJSON, _ := json.Marshal(value)
	ars.record.Value = valueJSON
	return ars
}

func (ars AttendanceRecordStub) WithIdempotencyKey(key string) AttendanceRecordStub {
	ars.record.IdempotencyKey = key
	return ars
}

func (ars AttendanceRecordStub) WithReferenceDate(referenceDate time.Time) AttendanceRecordStub {
	ars.record.ReferenceDate = referenceDate
	return ars
}

func (ars AttendanceRecordStub) Get() entities.AttendanceRecord {
	return ars.record
}
