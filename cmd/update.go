package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudmovies/config"
)

var (
	updateRepo  string
	updateCheck bool
	updateForce bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update cloudmovies to the latest release",
	Long: `Check GitHub for a newer release of cloudmovies and replace the running
binary with it. Development builds are only replaced with --force.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	RunE:        runUpdate,
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cloudmovies %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd, versionCmd)

	updateCmd.Flags().StringVar(&updateRepo, "repo", config.DefaultUpdateRepository, "GitHub repository to update from (owner/name, default from update.repository)")
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "only check for a newer release")
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "update even when running a development build")
}

// currentVersion parses the build version; ok is false for dev builds
func currentVersion() (semver.Version, bool) {
	v, err := semver.ParseTolerant(strings.TrimPrefix(version, "v"))
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !cmd.Flags().Changed("repo") {
		updateRepo = config.UpdateRepository(cfgFile)
	}

	current, ok := currentVersion()
	if !ok && !updateForce {
		return fmt.Errorf("running development build %q; use --force to install the latest release", version)
	}

	logger.Info().Str("repository", updateRepo).Msg("Checking for updates")
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepo))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s in %s", runtime.GOOS, runtime.GOARCH, updateRepo)
	}

	if ok && latest.LessOrEqual(current.String()) {
		fmt.Printf("✓ cloudmovies %s is up to date\n", current)
		return nil
	}

	fmt.Printf("New version available: %s (current %s)\n", latest.Version(), version)
	if updateCheck {
		fmt.Println(latest.URL)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	color.Green("✓ Updated to %s", latest.Version())
	return nil
}
