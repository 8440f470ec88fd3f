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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/govtk/archive"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print information about a result archive",
	Long: `
Prints the instance, step, frame and field structure of a result
archive dump.

govtk info -F model.json --steps --instances
govtk info -F model.json --fields Step-1:0 -v`,
	Run: func(cmd *cobra.Command, args []string) {
		archiveFile, _ := cmd.Flags().GetString("file")
		if len(archiveFile) == 0 {
			fmt.Printf("error: must supply a result archive dump (-F, --file)\n")
			os.Exit(1)
		}

		model, err := archive.Load(archiveFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		steps, _ := cmd.Flags().GetBool("steps")
		instances, _ := cmd.Flags().GetBool("instances")
		frameSteps, _ := cmd.Flags().GetStringArray("frames")
		fieldFrames, _ := cmd.Flags().GetStringArray("fields")

		all := !steps && !instances && len(frameSteps) == 0 && len(fieldFrames) == 0
		if all {
			model.Info(verbose)
			return
		}
		if instances {
			model.InstancesInfo(verbose)
		}
		if steps {
			model.StepsInfo(verbose)
		}
		for _, step := range frameSteps {
			if err = model.FramesInfo(step, verbose); err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
		}
		for _, pair := range fieldFrames {
			step, frame, err := splitStepFrame(pair)
			if err == nil {
				err = model.FieldsInfo(step, frame, verbose)
			}
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
		}
	},
}

// splitStepFrame parses a "Step-1:0" argument.
func splitStepFrame(pair string) (string, int, error) {
	i := strings.LastIndex(pair, ":")
	if i < 0 {
		return "", 0, fmt.Errorf("want STEP:FRAME, got %q", pair)
	}
	frame, err := strconv.Atoi(pair[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("bad frame number in %q", pair)
	}
	return pair[:i], frame, nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("file", "F", "", "result archive dump (.json)")
	infoCmd.Flags().BoolP("steps", "s", false, "print the analysis steps")
	infoCmd.Flags().BoolP("instances", "i", false, "print the part instances")
	infoCmd.Flags().StringArray("frames", nil, "print the frames of a step")
	infoCmd.Flags().StringArray("fields", nil, "print the fields of a frame, as STEP:FRAME")
	infoCmd.Flags().BoolP("verbose", "v", false, "print full tables")
}
