package main

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-nested/pkg/columnar"
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/json"
	"github.com/ajitpratap0/nebula-nested/pkg/logger"
)

func newShapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shape SHAPE",
		Short: "Parse a shape and print its canonical form and level count",
		Example: `  nestctl shape 'map<utf8,list<int64>>'
  nestctl shape 'struct<id:int64,tags:list<string>>'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := columnar.ParseShape(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nlevels: %d\n", shape, columnar.Levels(shape))
			return nil
		},
	}
}

func newMapCmd(a *app) *cobra.Command {
	var input, key, value string
	var raw bool

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Build a map array from JSON rows and print the rows read back",
		Long: `Build a map array from JSON rows and print every row read back from it.

Each input row is a JSON object, an array of [key, value] pairs, or null.
Rows are printed one per line. Duplicate keys collapse to one entry keeping
the first position and the last value unless --raw is given.`,
		Example: `  echo '[{"a":1,"b":2},null,[["a",1],["a",5]]]' | nestctl map --value int64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyShape, err := columnar.ParseShape(key)
			if err != nil {
				return err
			}
			valueShape, err := columnar.ParseShape(value)
			if err != nil {
				return err
			}
			rows, err := a.readRows(cmd, input, columnar.MapOf(keyShape, valueShape))
			if err != nil {
				return err
			}

			m, err := a.conv.BuildMap(keyShape, valueShape, rows)
			if err != nil {
				return err
			}
			defer m.Release()

			out := cmd.OutOrStdout()
			for i := 0; i < m.Len(); i++ {
				var row columnar.Map
				if raw {
					row, err = m.Entries(i)
				} else {
					row, err = a.conv.ReadMap(m, i)
				}
				if err != nil {
					return err
				}
				if err := writeLine(out, row); err != nil {
					return err
				}
			}
			return a.printStats(cmd, m)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON rows file, - for stdin")
	cmd.Flags().StringVar(&key, "key", "utf8", "Key shape (a scalar or utf8)")
	cmd.Flags().StringVar(&value, "value", "utf8", "Value shape")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print every stored pair, duplicates included")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var input, sep string
	var mask []bool

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split JSON string rows on a separator and print the tokens",
		Long: `Split JSON string rows on a separator and print each row's tokens.

The input is a JSON array of strings or nulls. The split view shares the
character data of the built string array; --mask filters rows without
copying characters.`,
		Example: `  echo '["a,b,c","","x",null]' | nestctl split --sep , --mask 1,0,1,1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if utf8.RuneCountInString(sep) != 1 {
				return errors.Newf(errors.ErrorTypeValidation, "separator must be a single character, got %q", sep)
			}
			r, _ := utf8.DecodeRuneInString(sep)

			rows, err := a.readRows(cmd, input, columnar.UTF8())
			if err != nil {
				return err
			}
			src, err := a.conv.BuildStrings(rows)
			if err != nil {
				return err
			}
			defer src.Release()

			view, err := a.conv.BuildSplit(src, r)
			if err != nil {
				return err
			}
			defer view.Release()

			if cmd.Flags().Changed("mask") {
				filtered, err := a.conv.Filter(view, mask)
				if err != nil {
					return err
				}
				defer filtered.Release()
				view = filtered
			}

			tokens, err := a.conv.Rows(view)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, row := range tokens {
				if err := writeLine(out, row); err != nil {
					return err
				}
			}
			return a.printStats(cmd, view)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON rows file, - for stdin")
	cmd.Flags().StringVar(&sep, "sep", ",", "Separator character")
	cmd.Flags().BoolSliceVar(&mask, "mask", nil, "Row filter, one boolean per row (e.g. 1,0,1)")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.Marshal(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// readRows decodes a JSON array of rows of the given shape from input.
func (a *app) readRows(cmd *cobra.Command, input string, shape columnar.Shape) ([]columnar.Value, error) {
	r, err := openInput(cmd, input)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := json.DecodeRows(r, shape)
	if err != nil {
		return nil, err
	}
	log := logger.WithContext(context.WithValue(cmd.Context(), logger.InputKey, input))
	log.Debug("rows decoded",
		zap.Stringer("shape", shape),
		zap.Int("rows", len(rows)))
	return rows, nil
}

func writeLine(w io.Writer, v columnar.Value) error {
	if err := json.EncodeValue(w, v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
