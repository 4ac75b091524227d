package manager

// Unload releases the instance for name and reports whether anything was
// released. Calling it on a resource that is not loaded is a no-op returning
// false; only an unknown name is an error.
func (m *Manager) Unload(name string) (bool, error) {
	res := m.lookup(name)
	if res == nil {
		return false, ErrNotRegistered(name)
	}
	ok := m.unloadResource(res)
	if ok {
		m.log.Info().Str("resource", name).Msg("unloaded")
		m.publisher.Publish(Event{Name: "unload", Resource: name})
	}
	return ok, nil
}
