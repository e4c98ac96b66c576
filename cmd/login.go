// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"needles/cli/internal/auth"
	"needles/cli/internal/terminal"
)

var (
	loginName      string
	loginPhone     string
	loginPassword  bool
	loginOTP       string
	verifyBoutique string
)

// loginCmd signs in with boutique name and phone, then verifies the OTP the
// backend sends to that phone.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with boutique name, phone and OTP",
	Long: `The login command submits your boutique name and phone number. The backend
sends a one-time password to that phone; enter it when prompted (or pass --otp)
to receive a session token, which is kept in the configured store.

If you are already signed in, the command says so and exits.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "/login")
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		if a.auth.IsActive() {
			pterm.Info.Println("Already logged in. Run `needles logout` first to switch boutiques.")
			return nil
		}

		in := bufio.NewReader(os.Stdin)
		creds := auth.Credentials{Name: loginName, Phone: loginPhone}
		if creds.Name == "" {
			if creds.Name, err = terminal.Prompt(in, os.Stdout, "Boutique name: "); err != nil {
				return err
			}
		}
		if creds.Phone == "" {
			if creds.Phone, err = terminal.Prompt(in, os.Stdout, "Phone: "); err != nil {
				return err
			}
		}
		if loginPassword {
			if creds.Password, err = terminal.ReadSecret(in, os.Stdout, "Password: "); err != nil {
				return err
			}
		}
		if creds.Name == "" || creds.Phone == "" {
			return errors.New("boutique name and phone are required")
		}

		var res *auth.LoginResult
		err = withSpinner("Signing in", func() error {
			res, err = a.auth.Login(ctx, creds)
			return err
		})
		if err != nil {
			return a.fail(err, "signing in")
		}
		if msg, ok := res.Response.Map()["message"].(string); ok && msg != "" {
			pterm.Info.Println(msg)
		}
		if res.BoutiqueID == "" {
			return errors.New("the backend did not return a boutique id; run `needles verify-otp --boutique <id>`")
		}

		return verifyAndGreet(ctx, a, in, res.BoutiqueID, loginOTP)
	},
}

// verifyOtpCmd completes a login started elsewhere, e.g. when the OTP
// arrives after `needles login` was interrupted.
var verifyOtpCmd = &cobra.Command{
	Use:   "verify-otp",
	Short: "Verify the one-time password sent to your phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "/login")
		if err != nil {
			return err
		}
		defer a.Close()

		id := verifyBoutique
		if id == "" {
			id = a.auth.BoutiqueID()
		} else {
			a.auth.SetBoutiqueID(id)
		}
		if id == "" {
			return errors.New("no boutique id on record; run `needles login` or pass --boutique")
		}
		return verifyAndGreet(cmd.Context(), a, bufio.NewReader(os.Stdin), id, loginOTP)
	},
}

func verifyAndGreet(ctx context.Context, a *app, in *bufio.Reader, boutiqueID, otp string) error {
	var err error
	if otp == "" {
		prompt := "OTP: "
		if otp, err = terminal.Prompt(in, os.Stdout, prompt); err != nil {
			return err
		}
		if terminal.IsInteractive() {
			terminal.ClearPreviousLines(len(prompt) + len(otp))
		}
	}
	if otp == "" {
		return errors.New("OTP is required")
	}

	var res *auth.VerifyResult
	err = withSpinner("Verifying OTP", func() error {
		res, err = a.auth.VerifyOTP(ctx, auth.OTPPayload{BoutiqueID: boutiqueID, OTP: otp})
		return err
	})
	if err != nil {
		return a.fail(err, "verifying the OTP")
	}

	if !res.TokenIssued {
		pterm.Warning.Println("OTP accepted, but the backend issued no session token.")
		if res.CookieSession {
			pterm.Info.Println("A cookie session was set; it lasts only for this command.")
		}
		return nil
	}

	who := boutiqueID
	if name, ok := res.User["name"].(string); ok && name != "" {
		who = name
	}
	fmt.Println(getRandomLoginGreeting(who))
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "", "Boutique name")
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "Registered phone number")
	loginCmd.Flags().BoolVar(&loginPassword, "password", false, "Prompt for the boutique password as well")
	loginCmd.Flags().StringVar(&loginOTP, "otp", "", "One-time password (prompted when omitted)")
	verifyOtpCmd.Flags().StringVar(&loginOTP, "otp", "", "One-time password (prompted when omitted)")
	verifyOtpCmd.Flags().StringVar(&verifyBoutique, "boutique", "", "Boutique id (defaults to the one saved by login)")
	rootCmd.AddCommand(loginCmd, verifyOtpCmd)
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🧵 You're all set, %s!",
		"👋 Hello %s! Ready to stitch?",
		"✅ Signed in as %s",
		"🎯 You're in, %s!",
	}
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], identifier)
}
