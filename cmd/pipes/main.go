// Command pipes is the driver for the Pipes front end: it parses source
// files and prints canonical text, AST dumps, or raw token streams.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	pipes "github.com/ja3067/Pipes"
)

var (
	dumpFormat      string
	disableComments bool
)

var rootCmd = &cobra.Command{
	Use:   "pipes",
	Short: "Pipes language front end",
	Long: `Syntactic front end for the Pipes language.

Subcommands:
  fmt     - parse a source file and print its canonical rendering
  ast     - parse a source file and dump the tree (yaml or json)
  tokens  - print the raw token stream of a source file`,
	SilenceUsage: true,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print the canonical rendering of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := pipes.DecodeFile(args[0], parseOptions())
		if err != nil {
			return err
		}

		return pipes.Encode(os.Stdout, prog, nil)
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Dump the parsed tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := pipes.DecodeFile(args[0], parseOptions())
		if err != nil {
			return err
		}

		for _, issue := range pipes.Validate(prog, nil) {
			fmt.Fprintf(os.Stderr, "%s: %s (%s)\n", issue.Level, issue.Message, issue.Path)
		}

		switch dumpFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(prog)
		case "yaml":
			out, err := yaml.Marshal(prog)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		default:
			return fmt.Errorf("unknown dump format %q", dumpFormat)
		}
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the raw token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		toks, err := pipes.Tokenize(src, parseOptions())
		if err != nil {
			return err
		}

		for _, tok := range toks {
			if tok.Lit != "" && tok.Lit != tok.Kind.String() {
				fmt.Printf("%d:%d\t%s\t%q\n", tok.Line, tok.Col, tok.Kind, tok.Lit)
				continue
			}
			fmt.Printf("%d:%d\t%s\n", tok.Line, tok.Col, tok.Kind)
		}

		return nil
	},
}

func parseOptions() *pipes.ParseOptions {
	return &pipes.ParseOptions{DisableComments: disableComments}
}

func init() {
	astCmd.Flags().StringVar(&dumpFormat, "format", "yaml", "dump format: yaml or json")
	rootCmd.PersistentFlags().BoolVar(&disableComments, "no-comments", false, "disable # comments")
	rootCmd.AddCommand(fmtCmd, astCmd, tokensCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
