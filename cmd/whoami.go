package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"needles/cli/internal/logging"
	"needles/cli/internal/store"
)

var whoamiRemote bool

// whoamiCmd shows the local session: boutique, cached profile and token
// expiry. With --remote it also asks the backend, which validates the token.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in boutique",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "/profile")
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.auth.Status()
		if !st.Active {
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'needles login' to get started.")
			return nil
		}

		who := st.BoutiqueID
		if name, ok := st.Profile["name"].(string); ok && name != "" {
			who = name
		}
		fmt.Printf("👤 Current boutique: %s\n", who)
		if st.BoutiqueID != "" {
			fmt.Printf("   Boutique id: %s\n", st.BoutiqueID)
		}
		tok, _ := a.state.Get()
		fmt.Printf("   Token: %s\n", logging.MaskToken(tok))
		if verbose {
			if keys, ok := storedKeys(a.store); ok {
				fmt.Printf("   Stored keys (%s): %s\n", a.cfg.Store.Backend, strings.Join(keys, ", "))
			}
		}

		switch {
		case !st.HasClaims || !st.Claims.HasExpiry():
			fmt.Println("   Expires: unknown")
		case st.Expired(time.Now()):
			pterm.Warning.Printf("Token expired at %s; the next request will sign you out.\n", st.Claims.ExpiresAt.Local().Format(time.RFC1123))
		default:
			fmt.Printf("   Expires: %s\n", st.Claims.ExpiresAt.Local().Format(time.RFC1123))
		}

		if !whoamiRemote {
			return nil
		}
		var profile map[string]any
		err = withSpinner("Checking session", func() error {
			profile, err = a.boutique.Profile(cmd.Context())
			return err
		})
		if err != nil {
			return a.fail(err, "checking the session")
		}
		pterm.Success.Println("Session is valid")
		if jsonOutput {
			return printJSON(profile)
		}
		return nil
	},
}

// storedKeys lists what the session store holds, when it can enumerate keys.
func storedKeys(st store.Store) ([]string, bool) {
	l, ok := st.(store.Lister)
	if !ok {
		return nil, false
	}
	keys, err := l.Keys()
	if err != nil {
		return nil, false
	}
	return keys, true
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Validate the session with the backend")
	rootCmd.AddCommand(whoamiCmd)
}
