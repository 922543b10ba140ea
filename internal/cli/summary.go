package cli

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nixopus/installer/internal/ui"
)

const (
	docsURL      = "https://docs.nixopus.com"
	communityURL = "https://discord.gg/skdcq39Wpv"
)

// PrintOutcomes prints one line per step with its status
func PrintOutcomes(u *ui.UI, results []StepResult) {
	caser := cases.Title(language.English)

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{caser.String(r.Step), string(r.Status), r.Detail()})
	}

	u.Print("")
	u.Table([]string{"STEP", "STATUS", "DETAIL"}, rows)
}

// PrintSummary prints access information, credentials and the step table
func PrintSummary(sc *SetupContext, results []StepResult, adminCreated bool) {
	u := sc.UI
	cfg := sc.Config
	caser := cases.Title(language.English)

	degraded := false
	adminSkipped := false
	for _, r := range results {
		if r.Step == "admin" && r.Status == StatusSkipped {
			adminSkipped = true
		}
		if r.Status == StatusDegraded || adminSkipped {
			degraded = true
		}
	}

	if degraded {
		u.Header("Installation Complete (with warnings)")
	} else {
		u.Header("Installation Complete!")
	}

	u.Bold("Access Information:")
	u.KeyValue("Environment", caser.String(string(cfg.Environment)))
	u.KeyValue("API", "https://"+cfg.Domains.API)
	u.KeyValue("App", "https://"+cfg.Domains.App)
	u.Print("")

	u.Bold("Admin Credentials:")
	u.KeyValue("Email", cfg.Admin.Email)
	u.KeyValue("Password", cfg.Admin.Password)
	switch {
	case adminSkipped:
		u.Warning("The admin account was not created. Run 'nixopus-installer admin' once the API is up.")
	case !adminCreated:
		u.Info("An admin account already existed, these credentials were not applied.")
	}
	u.Print("")
	u.Warning("Please save these credentials securely. You will need them to log in.")

	PrintOutcomes(u, results)

	u.Separator()
	u.Bold("Thank you for installing Nixopus!")
	u.Infof("Documentation: %s", docsURL)
	u.Infof("Community: %s", communityURL)
	u.Bold("See you in the community!")
}
