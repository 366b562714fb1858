package cardpermission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

func strPtr(v string) *string {
	return &v
}

func testFlow() []dbmodels.FlowDepartment {
	return []dbmodels.FlowDepartment{
		{DepartmentID: "dep-a", FlowOrder: 1},
		{DepartmentID: "dep-b", FlowOrder: 2},
		{DepartmentID: "dep-c", FlowOrder: 3},
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	flow := testFlow()
	card := dbmodels.Card{
		Status:              models.CardStatusInProgress,
		CurrentDepartmentID: strPtr("dep-b"),
		CreatorID:           "creator",
	}

	cases := []struct {
		name     string
		actor    models.Actor
		card     dbmodels.Card
		expected models.PermissionLevel
	}{
		{
			name:     "администратор получает полный доступ",
			actor:    models.Actor{UserID: "u1", Role: models.UserRoleAdmin},
			card:     card,
			expected: models.PermissionCanSubmit,
		},
		{
			name:     "текущий отдел может передавать",
			actor:    models.Actor{UserID: "u1", DepartmentID: "dep-b", Role: models.UserRoleUser},
			card:     card,
			expected: models.PermissionCanSubmit,
		},
		{
			name: "отдел сильнее владения: создатель в текущем отделе получает can_submit",
			actor: models.Actor{
				UserID: "creator", DepartmentID: "dep-b", Role: models.UserRoleUser,
			},
			card:     card,
			expected: models.PermissionCanSubmit,
		},
		{
			name:     "создатель вне текущего отдела - owner",
			actor:    models.Actor{UserID: "creator", DepartmentID: "dep-c", Role: models.UserRoleUser},
			card:     card,
			expected: models.PermissionOwner,
		},
		{
			name:     "ранее пройденный отдел - только просмотр",
			actor:    models.Actor{UserID: "u1", DepartmentID: "dep-a", Role: models.UserRoleUser},
			card:     card,
			expected: models.PermissionViewOnly,
		},
		{
			name:     "будущий отдел - нет доступа",
			actor:    models.Actor{UserID: "u1", DepartmentID: "dep-c", Role: models.UserRoleUser},
			card:     card,
			expected: models.PermissionNone,
		},
		{
			name:  "завершенная карта для не-администратора - только просмотр",
			actor: models.Actor{UserID: "u1", DepartmentID: "dep-b", Role: models.UserRoleUser},
			card: dbmodels.Card{
				Status:    models.CardStatusCompleted,
				CreatorID: "creator",
			},
			expected: models.PermissionViewOnly,
		},
		{
			name:  "отмененная карта для создателя - только просмотр",
			actor: models.Actor{UserID: "creator", Role: models.UserRoleUser},
			card: dbmodels.Card{
				Status:    models.CardStatusCancelled,
				CreatorID: "creator",
			},
			expected: models.PermissionViewOnly,
		},
		{
			name:  "отклоненная карта: текущий отдел сохраняет can_submit",
			actor: models.Actor{UserID: "u1", DepartmentID: "dep-b", Role: models.UserRoleUser},
			card: dbmodels.Card{
				Status:              models.CardStatusRejected,
				CurrentDepartmentID: strPtr("dep-b"),
			},
			expected: models.PermissionCanSubmit,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Evaluate(tc.actor, tc.card, flow))
		})
	}
}

func TestEvaluateDraftCard(t *testing.T) {
	flow := testFlow()
	card := dbmodels.Card{
		Status:    models.CardStatusDraft,
		CreatorID: "creator",
	}

	require.Equal(t, models.PermissionOwner,
		Evaluate(models.Actor{UserID: "creator", DepartmentID: "dep-a", Role: models.UserRoleUser}, card, flow))
	require.Equal(t, models.PermissionNone,
		Evaluate(models.Actor{UserID: "stranger", DepartmentID: "dep-a", Role: models.UserRoleUser}, card, flow))
}
