package store

import "fjacquet/revenue-dash/internal/models"

// MockSynonymStore is an in-memory SynonymRepository for testing.
type MockSynonymStore struct {
	Synonyms map[models.Field][]string

	LoadError error
	AddError  error
}

// Load returns a copy of the mock synonyms.
func (m *MockSynonymStore) Load() (map[models.Field][]string, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	result := make(map[models.Field][]string, len(m.Synonyms))
	for k, v := range m.Synonyms {
		result[k] = append([]string(nil), v...)
	}
	return result, nil
}

// Add appends a synonym unless it is already present.
func (m *MockSynonymStore) Add(field models.Field, name string) (bool, error) {
	if m.AddError != nil {
		return false, m.AddError
	}
	if m.Synonyms == nil {
		m.Synonyms = make(map[models.Field][]string)
	}
	for _, existing := range m.Synonyms[field] {
		if existing == name {
			return false, nil
		}
	}
	m.Synonyms[field] = append(m.Synonyms[field], name)
	return true, nil
}
