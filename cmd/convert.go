/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/govtk/archive"
	"github.com/notargets/govtk/convert"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a result archive to per-frame VTK collections",
	Long: `
Reads a result archive dump and a JSON output request, matches the
request against the archive and writes one partitioned VTK collection
per matched frame.`,
	Run: func(cmd *cobra.Command, args []string) {
		archiveFile, _ := cmd.Flags().GetString("file")
		requestFile, _ := cmd.Flags().GetString("request")
		outputDir, _ := cmd.Flags().GetString("output")
		prof, _ := cmd.Flags().GetBool("profile")

		if len(archiveFile) == 0 {
			fmt.Printf("error: must supply a result archive dump (-F, --file)\n")
			os.Exit(1)
		}
		if len(requestFile) == 0 {
			fmt.Printf("error: must supply an output request file (-R, --request)\n")
			exampleFile := `
{
  "instances": ["PART-1-1"],
  "frames": [ { "step": "Step-1", "list": [0, 1, 2] } ],
  "fields": [ { "key": "S" }, { "key": "U.*" } ]
}
`
			fmt.Printf("Example file:%s\n", exampleFile)
			os.Exit(1)
		}

		if prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}

		if outputDir == "" {
			outputDir = viper.GetString("outputDir")
		}

		if err := runConvert(archiveFile, requestFile, outputDir); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func runConvert(archiveFile, requestFile, outputDir string) error {
	data, err := os.ReadFile(requestFile)
	if err != nil {
		return fmt.Errorf("reading request %s: %w", requestFile, err)
	}
	request, err := convert.ParseRequest(data)
	if err != nil {
		return err
	}

	model, err := archive.Load(archiveFile)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(archiveFile), filepath.Ext(archiveFile))
	c := convert.NewConverter(request, convert.Options{
		DedupFields: viper.GetBool("dedupFields"),
		OutputDir:   outputDir,
	})
	return c.Convert(model, base)
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("file", "F", "", "result archive dump to convert (.json)")
	convertCmd.Flags().StringP("request", "R", "", "output request file (JSON)")
	convertCmd.Flags().StringP("output", "o", "", "directory to write collections under")
	convertCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}
