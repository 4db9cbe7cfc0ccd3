package usecase

import (
	"errors"

	factrepo "aura-backend/internal/fact/repository"
	propertydomain "aura-backend/internal/property/domain"
	"aura-backend/internal/property/repository"
)

var ErrPropertyNotFound = errors.New("property not found")

// PropertyUsecase serves the property directory and owns the deletion
// side effect: facts keep a weak reference, so removing a property must
// null it out rather than cascade.
type PropertyUsecase interface {
	List(userID string) ([]*propertydomain.Property, error)
	Get(userID, propertyID string) (*propertydomain.Property, error)
	Remove(userID, propertyID string) error
}

type propertyUsecase struct {
	propertyRepo repository.PropertyRepository
	factRepo     factrepo.FactRepository
}

func NewPropertyUsecase(propertyRepo repository.PropertyRepository, factRepo factrepo.FactRepository) PropertyUsecase {
	return &propertyUsecase{propertyRepo: propertyRepo, factRepo: factRepo}
}

func (u *propertyUsecase) List(userID string) ([]*propertydomain.Property, error) {
	return u.propertyRepo.ListByUser(userID)
}

func (u *propertyUsecase) Get(userID, propertyID string) (*propertydomain.Property, error) {
	property, err := u.propertyRepo.GetByID(propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil || property.UserID != userID {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

func (u *propertyUsecase) Remove(userID, propertyID string) error {
	property, err := u.propertyRepo.GetByID(propertyID)
	if err != nil {
		return err
	}
	if property == nil || property.UserID != userID {
		return ErrPropertyNotFound
	}

	if err := u.propertyRepo.Delete(propertyID); err != nil {
		return err
	}
	// facts referencing the property survive, unlinked
	return u.factRepo.DetachProperty(propertyID)
}
