// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is a ticker offered as a suggestion in the dashboard form.
// It is reference data only; prices are never stored alongside it.
type Symbol struct {
	ID        uint      `gorm:"primaryKey" yaml:"-"`
	Code      string    `gorm:"size:20;not null;uniqueIndex" yaml:"code"`
	Name      string    `gorm:"size:255;not null" yaml:"name"`
	Market    string    `gorm:"size:100;not null" yaml:"market"`
	IsActive  bool      `gorm:"not null" yaml:"active"`
	SortKey   int       `gorm:"not null;default:0" yaml:"sort_key"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" yaml:"-"`
}
