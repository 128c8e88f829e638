// api/util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/trashmob-eco/trashmob-api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateEvent(event model.Event) error {
	if event.Name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.EventDate.IsZero() {
		return fmt.Errorf("event date cannot be empty")
	}
	if event.DurationHours <= 0 {
		return fmt.Errorf("event duration must be positive")
	}
	if event.MaxParticipants < 0 {
		return fmt.Errorf("event participant limit cannot be negative")
	}
	return nil
}

func (v *ValidationUtil) ValidatePartner(partner model.Partner) error {
	if partner.Name == "" {
		return fmt.Errorf("partner name cannot be empty")
	}
	if strings.TrimSpace(partner.Slug) == "" {
		return fmt.Errorf("partner slug cannot be empty")
	}
	if strings.ContainsAny(partner.Slug, " /") {
		return fmt.Errorf("partner slug cannot contain spaces or slashes")
	}
	return nil
}

func (v *ValidationUtil) ValidateArea(area model.Area) error {
	if strings.TrimSpace(area.Name) == "" {
		return fmt.Errorf("area name cannot be empty")
	}
	if area.PartnerID == "" {
		return fmt.Errorf("area partner ID cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidatePickupLocation(location model.PickupLocation) error {
	if location.AreaID == "" {
		return fmt.Errorf("pickup location area ID cannot be empty")
	}
	if location.Latitude < -90 || location.Latitude > 90 {
		return fmt.Errorf("pickup location latitude out of range")
	}
	if location.Longitude < -180 || location.Longitude > 180 {
		return fmt.Errorf("pickup location longitude out of range")
	}
	return nil
}

func (v *ValidationUtil) ValidateTeam(team model.Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return fmt.Errorf("team name cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateWaiver(waiver model.Waiver) error {
	if waiver.Name == "" {
		return fmt.Errorf("waiver name cannot be empty")
	}
	if waiver.PartnerID == "" {
		return fmt.Errorf("waiver partner ID cannot be empty")
	}
	if waiver.DocumentVersion == "" {
		return fmt.Errorf("waiver document version cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if user.UserName == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if user.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateSponsor(sponsor model.Sponsor) error {
	if sponsor.Name == "" {
		return fmt.Errorf("sponsor name cannot be empty")
	}
	if sponsor.PartnerID == "" {
		return fmt.Errorf("sponsor partner ID cannot be empty")
	}
	return nil
}
