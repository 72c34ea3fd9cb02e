package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rollctx/rollctx/project"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of all configured project transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		statuses := project.Statuses(cfg)
		if len(statuses) == 0 {
			fmt.Println("no projects configured")
			return nil
		}

		for _, st := range statuses {
			if st.Err != nil {
				fmt.Printf("%s: %v\n", st.Name, st.Err)
				continue
			}
			state := "OK"
			if st.NeedsTrim {
				state = fmt.Sprintf("NEEDS TRIM (%d > %d)", st.Records, cfg.MaxMessages)
			}
			fmt.Printf("%s: %d records (%s to %s) - %s\n",
				st.Name, st.Records, st.FirstDate, st.LastDate, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
