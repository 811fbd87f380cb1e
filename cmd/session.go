package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Inspect or reset the onboarding flag",
}

var onboardingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether onboarding has been completed",
	Args:  cobra.NoArgs,
	RunE:  runOnboardingStatus,
}

var onboardingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the onboarding flag",
	Args:  cobra.NoArgs,
	RunE:  runOnboardingReset,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(onboardingCmd, logoutCmd)
	onboardingCmd.AddCommand(onboardingStatusCmd, onboardingResetCmd)
}

func runOnboardingStatus(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	done, err := svc.settings.HasOnboarded()
	if err != nil {
		return err
	}
	if !done {
		fmt.Println("Onboarding: not completed")
		return nil
	}

	fmt.Println("Onboarding: completed")
	if at := svc.settings.Values().OnboardedAt; !at.IsZero() {
		fmt.Printf("Completed at: %s\n", at.Local().Format("2006-01-02 15:04"))
	}
	if cfg.Session.SkipOnboarding {
		fmt.Println("Onboarding is skipped on login (session.skip_onboarding)")
	}
	return nil
}

func runOnboardingReset(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.settings.Reset(); err != nil {
		return err
	}
	logger.Info().Str("path", svc.settings.Path()).Msg("Onboarding flag cleared")
	color.Green("✓ Onboarding will be shown again after the next login")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	id := svc.auth.Current()
	if id.SessionID == "" {
		fmt.Println("Not signed in.")
		return nil
	}

	if err := svc.auth.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout did not complete cleanly: %w", err)
	}

	if id.Guest {
		color.Green("✓ Guest session ended")
	} else {
		color.Green("✓ Signed out %s", id.Username)
	}
	return nil
}
