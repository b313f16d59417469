package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

// secretKeyGenerateCmd represents the secret-key generate command
var secretKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a token-signing secret key",
	Long: `
Generate a token-signing secret key

Use this command to generate a new Base64-encoded 256 bit secret key. Once generated, this key should be placed into the environment of
the Eventdeck server as SECRET_KEY. It is used to sign the API access tokens handed out at login.

Example:

$ export SECRET_KEY="$(eventdeckctl secret-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		bytes := make([]byte, 32)
		_, _ = rand.Read(bytes)
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(bytes))
	},
}

func init() {
	secretKeyCmd.AddCommand(secretKeyGenerateCmd)
}
