// Command gendemo runs a couple of generator.Generator scenarios
// end-to-end and prints their output, as a runnable artifact demonstrating
// the library without turning it into an application in its own right.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joeycumines/generator"
)

var rootCmd = &cobra.Command{
	Use:   "gendemo",
	Short: "Run example generator.Generator programs",
	Long:  "gendemo drives a couple of stackful generators to completion and prints what they produce.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(fibonacciCmd, echoCmd)
}

var fibonacciCmd = &cobra.Command{
	Use:   "fibonacci",
	Short: "Yield successive Fibonacci numbers until the second exceeds 200",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := generator.NewScoped(256, func(y *generator.Yielder[struct{}, int]) int {
			a, b := 0, 1
			for {
				next := a + b
				if next >= 200 {
					return next
				}
				y.YieldWith(next)
				a, b = b, next
			}
		})
		defer g.Close()

		for {
			v, ok := g.Resume()
			if !ok {
				break
			}
			fmt.Println(v)
		}

		total, used := g.StackUsage()
		fmt.Printf("stack usage: %d/%d words\n", used, total)
		return nil
	},
}

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Accumulate a running sum of sent-in values",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := generator.NewScoped(256, func(y *generator.Yielder[uint32, uint32]) uint32 {
			var sum uint32
			in, ok := y.GetYield()
			for ok {
				sum += in
				in, ok = y.Yield(sum)
			}
			return sum
		})
		defer g.Close()

		for _, in := range []uint32{10, 20, 30, 40} {
			out, err := g.Send(in)
			if err != nil {
				return err
			}
			fmt.Println(out)
		}
		return nil
	},
}
