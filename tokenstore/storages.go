package tokenstore

import "errors"

// Storages fans each write out to every Storage it holds.
// Every Storage is attempted; failures are joined together.
type Storages []Storage

var _ Storage = Storages{}

func (ss Storages) SetItem(key, value string) error {
	var errs []error
	for _, s := range ss {
		if s == nil {
			continue
		}

		if err := s.SetItem(key, value); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (ss Storages) RemoveItem(key string) error {
	var errs []error
	for _, s := range ss {
		if s == nil {
			continue
		}

		if err := s.RemoveItem(key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
