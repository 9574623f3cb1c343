// Package model holds the three per-session state models: the product
// catalog, the basket and the buyer profile.
package model

import "github.com/RechkalovAA/weblarek/internal/domain"

// Publisher is where models announce their changes.
type Publisher interface {
	Publish(domain.Event)
}
