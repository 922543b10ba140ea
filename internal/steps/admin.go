package steps

import (
	"context"
	"errors"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/nixopus"
	"github.com/nixopus/installer/internal/ui"
)

// AdminRegistrar creates the initial admin account
type AdminRegistrar interface {
	RegisterAdmin(ctx context.Context, admin config.Admin) error
}

// AdminBootstrapper registers the administrator through the application API
type AdminBootstrapper struct {
	ui        *ui.UI
	registrar AdminRegistrar
	admin     config.Admin
}

// NewAdminBootstrapper creates a new AdminBootstrapper instance
func NewAdminBootstrapper(ui *ui.UI, registrar AdminRegistrar, admin config.Admin) *AdminBootstrapper {
	return &AdminBootstrapper{
		ui:        ui,
		registrar: registrar,
		admin:     admin,
	}
}

// Run registers the admin. It reports created=false without error when an
// admin already exists.
func (a *AdminBootstrapper) Run(ctx context.Context) (bool, error) {
	a.ui.Info("Setting up admin...")

	err := a.registrar.RegisterAdmin(ctx, a.admin)
	switch {
	case err == nil:
		a.ui.Success("Admin setup completed successfully")
		return true, nil
	case errors.Is(err, nixopus.ErrAdminExists):
		a.ui.Info("Admin already registered")
		return false, nil
	default:
		a.ui.Errorf("Admin setup failed: %v", err)
		return false, err
	}
}
