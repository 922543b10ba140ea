package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/nixopus/installer/internal/common"
	"github.com/nixopus/installer/internal/config"
)

// ErrMissingInput is returned in non-interactive mode when a required answer
// was not supplied by flag, config file or environment.
var ErrMissingInput = errors.New("missing required input")

// Prompter asks the operator for answers. *ui.UI implements it.
type Prompter interface {
	PromptSelect(prompt string, options []string) (int, error)
	PromptInputWithValidation(prompt, defaultValue string, validator survey.Validator) (string, error)
	PromptPasswordConfirm(prompt string) (string, error)
}

// InputOptions tells CollectInput which answers were given explicitly
type InputOptions struct {
	EnvironmentChosen bool
	NeedAdmin         bool
}

func validator(fn func(string) error) survey.Validator {
	return func(ans interface{}) error {
		s, _ := ans.(string)
		return fn(strings.TrimSpace(s))
	}
}

func requiredDomain(s string) error {
	if err := common.ValidateNotEmpty(s); err != nil {
		return fmt.Errorf("domain cannot be empty")
	}
	return nil
}

// CollectInput fills in the environment, domains and admin credentials.
// Values already present in the config are validated, missing ones are
// prompted for, or reported as ErrMissingInput when prompting is disabled.
func CollectInput(sc *SetupContext, p Prompter, opts InputOptions) error {
	cfg := sc.Config
	u := sc.UI

	var missing []string
	need := func(key string) {
		missing = append(missing, fmt.Sprintf("%s (--%s or %s)", key, InputFlags[key], EnvVar(key)))
	}

	if !opts.EnvironmentChosen && !u.IsNonInteractive() {
		options := make([]string, len(config.Environments))
		for i, env := range config.Environments {
			options[i] = env.String()
		}
		idx, err := p.PromptSelect("Select the environment to install", options)
		if err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		cfg.Environment = config.Environments[idx]
		sc.Endpoint.Context = cfg.Environment.DockerContext()
	}

	askDomain := func(label string, value *string, key string) error {
		if *value != "" {
			return nil
		}
		if u.IsNonInteractive() {
			need(key)
			return nil
		}
		answer, err := p.PromptInputWithValidation(label, "", validator(requiredDomain))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		*value = strings.TrimSpace(answer)
		return nil
	}
	if err := askDomain("API domain (e.g. api.example.com)", &cfg.Domains.API, config.KeyAPIDomain); err != nil {
		return err
	}
	if err := askDomain("App domain (e.g. app.example.com)", &cfg.Domains.App, config.KeyAppDomain); err != nil {
		return err
	}

	if opts.NeedAdmin {
		if cfg.Admin.Email == "" {
			if u.IsNonInteractive() {
				need(config.KeyAdminEmail)
			} else {
				answer, err := p.PromptInputWithValidation("Admin email", "", validator(common.ValidateEmail))
				if err != nil {
					return fmt.Errorf("failed to read admin email: %w", err)
				}
				cfg.Admin.Email = strings.TrimSpace(answer)
			}
		}
		if cfg.Admin.Password == "" {
			if u.IsNonInteractive() {
				need(config.KeyAdminPassword)
			} else {
				for {
					answer, err := p.PromptPasswordConfirm("Admin password")
					if err != nil {
						return fmt.Errorf("failed to read admin password: %w", err)
					}
					if err := common.ValidatePassword(answer); err != nil {
						u.Error(err.Error())
						continue
					}
					cfg.Admin.Password = answer
					break
				}
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}

	return validateInput(sc, opts)
}

func validateInput(sc *SetupContext, opts InputOptions) error {
	cfg := sc.Config
	for _, d := range []struct{ label, value string }{
		{"API domain", cfg.Domains.API},
		{"App domain", cfg.Domains.App},
	} {
		if err := common.ValidateDomain(d.value); err != nil {
			sc.UI.Warningf("%s %q does not look like a domain name: %v", d.label, d.value, err)
		}
	}

	if !opts.NeedAdmin {
		return nil
	}
	if err := common.ValidateEmail(cfg.Admin.Email); err != nil {
		return fmt.Errorf("invalid admin email: %w", err)
	}
	if err := common.ValidatePassword(cfg.Admin.Password); err != nil {
		return fmt.Errorf("invalid admin password: %w", err)
	}
	return nil
}

// InputFlags names the command-line flag bound to each operator answer
var InputFlags = map[string]string{
	config.KeyEnv:           "env",
	config.KeyAPIDomain:     "api-domain",
	config.KeyAppDomain:     "app-domain",
	config.KeyAdminEmail:    "admin-email",
	config.KeyAdminPassword: "admin-password",
}

// EnvVar returns the environment variable viper reads for a config key
func EnvVar(key string) string {
	return config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
