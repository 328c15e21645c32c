package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modfar/go-coa/pkg/coa"
)

var keysType string

// keysCmd lists the placeholder keys a template may use
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the placeholder keys for a certificate type",
	Long: `Prints every {{KEY}} placeholder the generator fills for the given
certificate type. Useful when authoring or auditing a template.`,
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().StringVarP(&keysType, "type", "t", string(coa.TypeMOD), "certificate type: MOD or FAR")
}

func runKeys(cmd *cobra.Command, args []string) error {
	typ := coa.COAType(strings.ToUpper(keysType))
	if !typ.Valid() {
		return fmt.Errorf("unknown certificate type %q (want MOD or FAR)", keysType)
	}

	values := coa.BuildReplacements("", typ, nil)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("{{%s}}\n", k)
	}
	return nil
}
