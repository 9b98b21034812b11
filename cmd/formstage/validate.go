package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/validation"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <kind> <value> [return-date]",
		Short: "Check a value against a field rule",
		Long: `Check a value with the same rules the form applies.

Kinds: name, phone, email, relation, dob, travel. Phone numbers are
formatted before they are checked; travel takes a departure and an
optional return date.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.Kind(strings.ToLower(args[0]))
			value := args[1]
			v := validation.New()

			var failures []string
			switch kind {
			case model.KindPhone:
				formatted, res := v.Phone(value)
				value = formatted
				if !res.OK {
					failures = append(failures, res.Message)
				}
			case model.KindTravel:
				ret := ""
				if len(args) == 3 {
					ret = args[2]
				}
				res := v.Travel(value, ret)
				for _, r := range []model.Result{res.Departure, res.Return} {
					if !r.OK {
						failures = append(failures, r.Message)
					}
				}
			default:
				if !knownKind(kind) {
					return fmt.Errorf("unknown kind %q", args[0])
				}
				if res := v.Validate(kind, value); !res.OK {
					failures = append(failures, res.Message)
				}
			}

			if len(failures) > 0 {
				return fmt.Errorf("invalid %s: %s", kind, strings.Join(failures, " "))
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", value)
			return err
		},
	}
}

func knownKind(kind model.Kind) bool {
	for _, k := range model.Kinds() {
		if k == kind && k != model.KindContact {
			return true
		}
	}
	return false
}
