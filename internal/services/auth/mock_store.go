package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	secrets map[string]string

	// Err, when set, is returned by every call.
	Err error
}

func NewMockStore() *MockStore {
	return &MockStore{secrets: make(map[string]string)}
}

func (m *MockStore) SetSecret(name string, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.secrets[NormalizeName(name)] = value
	return nil
}

func (m *MockStore) GetSecret(name string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	value, ok := m.secrets[NormalizeName(name)]
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

func (m *MockStore) DeleteSecret(name string) error {
	if m.Err != nil {
		return m.Err
	}
	key := NormalizeName(name)
	if _, ok := m.secrets[key]; !ok {
		return ErrSecretNotFound
	}
	delete(m.secrets, key)
	return nil
}
