package models

import (
	"errors"
	"strings"
)

// ErrValidation is returned when a selection is missing the rider name or the bike.
var ErrValidation = errors.New("please enter your name and select a bike")

// EquipmentSelection binds a rider to a bike.
type EquipmentSelection struct {
	UserName    string `json:"user_name"`
	EquipmentID string `json:"equipment_id"`
}

// Validate requires both fields to be present.
func (s EquipmentSelection) Validate() error {
	if strings.TrimSpace(s.UserName) == "" || strings.TrimSpace(s.EquipmentID) == "" {
		return ErrValidation
	}
	return nil
}

// Equipment is a selectable bike.
type Equipment struct {
	EquipmentID string `json:"equipment_id"`
	Name        string `json:"name"`
}
