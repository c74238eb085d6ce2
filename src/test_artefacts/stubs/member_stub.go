package stubs

import (
	"encoding/json"
	"time"

	"discipulado/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type MemberStub struct {
	member entities.Member
}

func NewMemberStub() MemberStub {
	now := time.Now().UTC()

	profile := map[string]interface{}{
		"email":    gofakeit.Email(),
		"telefone": gofakeit.Phone(),
	}
	profileJSON, _ := json.Marshal(profile)

	member := entities.Member{
		ID:        gofakeit.Int64(),
		Reference: gofakeit.UUID(),
		Name:      gofakeit.Name(),
		Roles:     []entities.Role{entities.RoleDiscipulo},
		Profile:   profileJSON,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return MemberStub{member: member}
}

func (ms MemberStub) WithID(id int64) MemberStub {
	ms.member.ID = id
	return ms
}

func (ms MemberStub) WithReference(reference string) MemberStub {
	ms.member.Reference = reference
	return ms
}

func (ms MemberStub) WithName(name string) MemberStub {
	ms.member.Name = name
	return ms
}

func (ms MemberStub) WithRoles(roles ...entities.Role) MemberStub {
	ms.member.Roles = roles
	return ms
}

func (ms MemberStub) WithProfile(profile map[string]interface{}) MemberStub {
	profileJSON, _ := json.Marshal(profile)
	ms.member.Profile = profileJSON
	return ms
}

func (ms MemberStub) Get() entities.Member {
	return ms.member
}
