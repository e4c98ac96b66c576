// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"needles/cli/internal/boutique"
	"needles/cli/internal/terminal"
)

var (
	phoneOTP         string
	deleteAllHeaders bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit the boutique profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showProfile(cmd)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the boutique profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showProfile(cmd)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <key=value>...",
	Short: "Update profile fields, e.g. name=\"Chic Couture\" location=Pune",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(args)
		if err != nil {
			return err
		}
		return mutate(cmd, "/profile", "updating the profile", "Profile updated",
			func(a *app) (boutique.Record, error) { return a.boutique.UpdateProfile(cmd.Context(), fields) })
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the boutique password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(os.Stdin)
		current, err := terminal.ReadSecret(in, os.Stdout, "Current password: ")
		if err != nil {
			return err
		}
		next, err := terminal.ReadSecret(in, os.Stdout, "New password: ")
		if err != nil {
			return err
		}
		confirm, err := terminal.ReadSecret(in, os.Stdout, "Confirm new password: ")
		if err != nil {
			return err
		}
		if next == "" || next != confirm {
			return errors.New("new passwords are empty or do not match")
		}
		change := boutique.PasswordChange{CurrentPassword: current, NewPassword: next}
		return mutate(cmd, "/profile", "changing the password", "Password changed",
			func(a *app) (boutique.Record, error) { return a.boutique.ChangePassword(cmd.Context(), change) })
	},
}

var profilePhoneCmd = &cobra.Command{
	Use:   "phone <new-phone>",
	Short: "Change the registered phone number (OTP confirmed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "/profile")
		if err != nil {
			return err
		}
		defer a.Close()
		ctx, phone := cmd.Context(), args[0]

		var res boutique.Record
		err = withSpinner("Requesting phone update", func() error {
			res, err = a.boutique.RequestPhoneUpdate(ctx, phone)
			return err
		})
		if err != nil {
			return a.fail(err, "requesting the phone update")
		}
		if err := printResult(res, "An OTP was sent to "+phone); err != nil {
			return err
		}

		otp := phoneOTP
		if otp == "" {
			if otp, err = terminal.Prompt(bufio.NewReader(os.Stdin), os.Stdout, "OTP: "); err != nil {
				return err
			}
		}
		err = withSpinner("Confirming phone update", func() error {
			res, err = a.boutique.ConfirmPhoneUpdate(ctx, phone, otp)
			return err
		})
		if err != nil {
			return a.fail(err, "confirming the phone update")
		}
		return printResult(res, "Phone number updated")
	},
}

var headerImageAddCmd = &cobra.Command{
	Use:   "add-header-images <file>...",
	Short: "Upload header images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images, closeImages, err := openImages(args)
		defer closeImages()
		if err != nil {
			return err
		}
		return mutate(cmd, "/profile", "uploading header images", "Header images added",
			func(a *app) (boutique.Record, error) { return a.boutique.AddHeaderImages(cmd.Context(), images) })
	},
}

var headerImageDeleteCmd = &cobra.Command{
	Use:   "delete-header-image [image-url]",
	Short: "Delete one header image, or all of them with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteAllHeaders {
			return mutate(cmd, "/profile", "deleting header images", "All header images deleted",
				func(a *app) (boutique.Record, error) { return a.boutique.DeleteAllHeaderImages(cmd.Context(), nil) })
		}
		if len(args) == 0 {
			return errors.New("pass an image url or --all")
		}
		return mutate(cmd, "/profile", "deleting the header image", "Header image deleted",
			func(a *app) (boutique.Record, error) { return a.boutique.DeleteHeaderImage(cmd.Context(), args[0]) })
	},
}

func showProfile(cmd *cobra.Command) error {
	a, err := newApp(cmd, "/profile")
	if err != nil {
		return err
	}
	defer a.Close()

	var p boutique.Record
	err = withSpinner("Fetching profile", func() error {
		p, err = a.boutique.Profile(cmd.Context())
		return err
	})
	if err != nil {
		return a.fail(err, "fetching the profile")
	}
	if inner, ok := p["boutique"].(map[string]any); ok {
		p = inner
	}
	return renderRecord("Boutique profile", p)
}

func init() {
	profilePhoneCmd.Flags().StringVar(&phoneOTP, "otp", "", "OTP sent to the new number (prompted when omitted)")
	headerImageDeleteCmd.Flags().BoolVar(&deleteAllHeaders, "all", false, "Delete every header image")
	profileCmd.AddCommand(profileShowCmd, profileEditCmd, profilePasswordCmd, profilePhoneCmd, headerImageAddCmd, headerImageDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
