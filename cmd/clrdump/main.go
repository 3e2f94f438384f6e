// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pe "github.com/clrview/clrmeta"
)

var rootCmd = &cobra.Command{
	Use:   "clrdump",
	Short: "clrdump inspects the PE container and CLR metadata of a managed executable",
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the PE header summary of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := pe.Load(args[0], nil)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Machine:        0x%X\n", a.NtHeader.FileHeader.Machine)
		fmt.Printf("NumberOfSections: %d\n", a.NtHeader.FileHeader.NumberOfSections)
		fmt.Printf("Is64:           %v\n", a.Is64)
		fmt.Printf("HasCLR:         %v\n", a.HasMetadata())
		return nil
	},
}

var clrCmd = &cobra.Command{
	Use:   "clr <file>",
	Short: "Print the CLR header, stream directory, and a table's rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := pe.Load(args[0], nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.HasMetadata() {
			fmt.Println("no CLR metadata present")
			return nil
		}

		h := a.CLR.CLRHeader
		fmt.Printf("MajorRuntimeVersion: %d\n", h.MajorRuntimeVersion)
		fmt.Printf("MinorRuntimeVersion: %d\n", h.MinorRuntimeVersion)
		fmt.Printf("Flags:               %v\n", h.Flags.String())

		fmt.Println("Streams:")
		for _, sh := range a.CLR.MetadataStreamHeaders {
			fmt.Printf("  %-10s offset=0x%X size=%d\n", sh.Name, sh.Offset, sh.Size)
		}

		table, _ := cmd.Flags().GetString("table")
		if table == "" {
			return nil
		}

		kind, ok := tableKindByName(table)
		if !ok {
			return fmt.Errorf("unknown table %q", table)
		}
		t := a.Table(kind)
		if t == nil {
			fmt.Printf("table %s not present\n", table)
			return nil
		}
		fmt.Printf("%s: %d rows\n", table, t.RowCount())
		for rid := uint32(1); rid <= t.RowCount(); rid++ {
			row, err := t.Row(rid)
			if err != nil {
				return err
			}
			fmt.Printf("  [%d] %+v\n", rid, row)
		}
		return nil
	},
}

func tableKindByName(name string) (pe.TableKind, bool) {
	for k := pe.TableKind(0); k.String() != ""; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

func init() {
	clrCmd.Flags().String("table", "", "name of a metadata table to dump (e.g. TypeDef)")
	rootCmd.AddCommand(dumpCmd, clrCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the clrdump version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("clrdump 0.1.0")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
