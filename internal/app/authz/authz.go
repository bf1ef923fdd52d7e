package authz

import (
	"symposium-app/internal/domain/access"
	"symposium-app/internal/infra/store"

	"gorm.io/gorm"
)

// Engine is the process-wide authorizer, wired to the gorm store in main.
// It holds no mutable state, so sharing one instance across handlers is
// safe.
var Engine *access.Authorizer

// Records exposes the store for principal building in middleware.
var Records *store.Store

func Init(db *gorm.DB) {
	Records = store.New(db)
	Engine = access.NewAuthorizer(Records, Records, Records, Records)
}
