package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

// ContainerLister lists running containers
type ContainerLister interface {
	ListRunning(ctx context.Context) ([]system.ContainerStatus, error)
}

// ServiceState is the observed state of one required container
type ServiceState struct {
	Label     string
	Prefix    string
	Container string
	Status    string
	Running   bool
}

// MissingServicesError lists every required service that is not running
type MissingServicesError struct {
	Services []string
}

func (e *MissingServicesError) Error() string {
	return fmt.Sprintf("the following services are not running: %s", strings.Join(e.Services, ", "))
}

// CheckServices matches required containers against the running list. A
// requirement is met by a container whose name starts with the prefix and
// whose status contains "Up".
func CheckServices(required []config.RequiredContainer, running []system.ContainerStatus) []ServiceState {
	states := make([]ServiceState, 0, len(required))
	for _, req := range required {
		state := ServiceState{Label: req.Label, Prefix: req.Prefix}
		for _, c := range running {
			if !strings.HasPrefix(c.Name, req.Prefix) {
				continue
			}
			state.Container = c.Name
			state.Status = c.Status
			if strings.Contains(c.Status, "Up") {
				state.Running = true
				break
			}
		}
		states = append(states, state)
	}
	return states
}

// Missing returns the labels of required services that are not running, in
// requirement order.
func Missing(required []config.RequiredContainer, running []system.ContainerStatus) []string {
	return MissingLabels(CheckServices(required, running))
}

// MissingLabels returns the labels of the states that are not running
func MissingLabels(states []ServiceState) []string {
	var missing []string
	for _, state := range states {
		if !state.Running {
			missing = append(missing, state.Label)
		}
	}
	return missing
}

// InstallationVerifier confirms the required containers are up
type InstallationVerifier struct {
	ui       *ui.UI
	lister   ContainerLister
	required []config.RequiredContainer
}

// NewInstallationVerifier creates a new InstallationVerifier instance
func NewInstallationVerifier(ui *ui.UI, lister ContainerLister, required []config.RequiredContainer) *InstallationVerifier {
	return &InstallationVerifier{
		ui:       ui,
		lister:   lister,
		required: required,
	}
}

// Status returns the state of every required service
func (v *InstallationVerifier) Status(ctx context.Context) ([]ServiceState, error) {
	running, err := v.lister.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	return CheckServices(v.required, running), nil
}

// Run fails with a MissingServicesError naming every service that is down
func (v *InstallationVerifier) Run(ctx context.Context) error {
	v.ui.Info("Verifying installation...")

	states, err := v.Status(ctx)
	if err != nil {
		v.ui.Errorf("Error verifying installation: %v", err)
		return err
	}

	if missing := MissingLabels(states); len(missing) > 0 {
		v.ui.Error("The following services are not running:")
		for _, service := range missing {
			v.ui.Printf("  - %s", service)
		}
		return &MissingServicesError{Services: missing}
	}

	v.ui.Success("All services are running successfully")
	return nil
}
