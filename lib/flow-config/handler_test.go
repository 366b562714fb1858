package flowconfighandler

import (
	"testing"

	"github.com/stretchr/testify/require"

	flowapimodels "transfer-cards-backend/models/api/flow"
	dbmodels "transfer-cards-backend/models/db"
)

type fakeFlowConfigStore struct {
	saved map[string][]dbmodels.FlowDepartment
}

func (f *fakeFlowConfigStore) ListByTemplate(templateID string) ([]dbmodels.FlowDepartment, error) {
	return f.saved[templateID], nil
}

func (f *fakeFlowConfigStore) ReplaceForTemplate(templateID string, recs []dbmodels.FlowDepartment) error {
	if f.saved == nil {
		f.saved = map[string][]dbmodels.FlowDepartment{}
	}
	for idx := range recs {
		recs[idx].TemplateID = templateID
	}
	f.saved[templateID] = recs
	return nil
}

type fakeDepartmentStore struct {
	departments []dbmodels.Department
}

func (f *fakeDepartmentStore) Create(rec dbmodels.Department) (string, error) { return rec.ID, nil }
func (f *fakeDepartmentStore) GetByID(id string) (*dbmodels.Department, error) {
	for _, rec := range f.departments {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}
func (f *fakeDepartmentStore) List() ([]dbmodels.Department, error) { return f.departments, nil }
func (f *fakeDepartmentStore) Update(id string, updMap map[string]interface{}) error { return nil }
func (f *fakeDepartmentStore) Delete(id string) error                                { return nil }

func newTestHandler() (impl, *fakeFlowConfigStore) {
	store := &fakeFlowConfigStore{}
	handler := impl{
		store: store,
		departmentStore: &fakeDepartmentStore{
			departments: []dbmodels.Department{
				{BaseModel: dbmodels.BaseModel{ID: "dep-a"}, Name: "Конструкторский"},
				{BaseModel: dbmodels.BaseModel{ID: "dep-b"}, Name: "Производственный"},
				{BaseModel: dbmodels.BaseModel{ID: "dep-c"}, Name: "ОТК"},
			},
		},
	}
	return handler, store
}

func TestSetRecalculatesOrder(t *testing.T) {
	handler, store := newTestHandler()

	request := flowapimodels.SetFlowRequest{
		Departments: []flowapimodels.FlowDepartmentData{
			{DepartmentID: "dep-c", TimeoutHours: 4},
			{DepartmentID: "dep-a"},
			{DepartmentID: "dep-b", AutoSkip: true},
		},
	}
	hMsg, err := handler.Set("tpl-1", request)
	require.Nil(t, err)
	require.Empty(t, hMsg)

	saved := store.saved["tpl-1"]
	require.Len(t, saved, 3)
	for idx, rec := range saved {
		require.Equal(t, idx+1, rec.FlowOrder)
	}
	require.Equal(t, "dep-c", saved[0].DepartmentID)
	require.Equal(t, 4, saved[0].TimeoutHours)
	require.True(t, saved[0].IsRequired)
	require.True(t, saved[2].AutoSkip)
}

func TestSetOrderContiguousForAnyPermutation(t *testing.T) {
	handler, store := newTestHandler()

	permutations := [][]string{
		{"dep-a", "dep-b", "dep-c"},
		{"dep-b", "dep-c", "dep-a"},
		{"dep-c", "dep-b", "dep-a"},
	}
	for _, perm := range permutations {
		request := flowapimodels.SetFlowRequest{}
		for _, id := range perm {
			request.Departments = append(request.Departments, flowapimodels.FlowDepartmentData{DepartmentID: id})
		}
		hMsg, err := handler.Set("tpl-1", request)
		require.Nil(t, err)
		require.Empty(t, hMsg)

		saved := store.saved["tpl-1"]
		require.Len(t, saved, len(perm))
		for idx, rec := range saved {
			require.Equal(t, idx+1, rec.FlowOrder)
			require.Equal(t, perm[idx], rec.DepartmentID)
		}
	}
}

func TestSetRejectsUnknownDepartment(t *testing.T) {
	handler, store := newTestHandler()

	request := flowapimodels.SetFlowRequest{
		Departments: []flowapimodels.FlowDepartmentData{
			{DepartmentID: "dep-a"},
			{DepartmentID: "dep-x"},
		},
	}
	hMsg, err := handler.Set("tpl-1", request)
	require.Nil(t, err)
	require.NotEmpty(t, hMsg)
	require.Empty(t, store.saved)
}

func TestSetRejectsDuplicates(t *testing.T) {
	handler, store := newTestHandler()

	request := flowapimodels.SetFlowRequest{
		Departments: []flowapimodels.FlowDepartmentData{
			{DepartmentID: "dep-a"},
			{DepartmentID: "dep-b"},
			{DepartmentID: "dep-a"},
		},
	}
	hMsg, err := handler.Set("tpl-1", request)
	require.Nil(t, err)
	require.NotEmpty(t, hMsg)
	require.Empty(t, store.saved)
}
