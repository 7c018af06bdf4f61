package main

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestIngestCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "competiq",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest documents into the knowledge base",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Document category: competitor, business, or unknown",
						Value:   "unknown",
					},
				},
			},
		},
	}

	t.Run("missing file argument fails", func(t *testing.T) {
		args := []string{"competiq", "ingest"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file path")
	})

	t.Run("invalid document type fails", func(t *testing.T) {
		args := []string{"competiq", "ingest", "--type", "pamphlet", "notes.txt"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid document type")
		assert.Contains(t, err.Error(), "pamphlet")
	})

	t.Run("type has default value of unknown", func(t *testing.T) {
		cmd := app.Commands[0]
		var typeFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "type" {
				typeFlag = f
				break
			}
		}
		require.NotNil(t, typeFlag)
		assert.Equal(t, "unknown", typeFlag.Value)
	})
}

func TestQueryCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "competiq",
		Commands: []*cli.Command{
			{
				Name:   "query",
				Usage:  "Search stored documents by semantic similarity",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search text",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				},
			},
		},
	}

	t.Run("query flag is required", func(t *testing.T) {
		args := []string{"competiq", "query"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("limit has default value of 5", func(t *testing.T) {
		cmd := app.Commands[0]
		var limitFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "limit" {
				limitFlag = f
				break
			}
		}
		require.NotNil(t, limitFlag)
		assert.Equal(t, 5, limitFlag.Value)
	})
}

func TestReportCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "competiq",
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "Generate a competitor analysis report",
				Action: reportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Analysis request",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a markdown file instead of stdout",
					},
				},
			},
		},
	}

	t.Run("query flag is required", func(t *testing.T) {
		args := []string{"competiq", "report"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("output has no default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var outputFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "output" {
				outputFlag = f
				break
			}
		}
		require.NotNil(t, outputFlag)
		assert.Empty(t, outputFlag.Value)
		assert.False(t, outputFlag.Required)
	})
}

func TestClearCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "competiq",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete every document in the knowledge base",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm deletion without prompting",
					},
				},
			},
		},
	}

	t.Run("refuses without confirmation", func(t *testing.T) {
		args := []string{"competiq", "clear"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
	})
}

func TestSnippet(t *testing.T) {
	t.Run("short text is returned unchanged", func(t *testing.T) {
		assert.Equal(t, "hello world", snippet("hello world", 20))
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		assert.Equal(t, "hello", snippet("  hello\n", 20))
	})

	t.Run("long text is truncated with ellipsis", func(t *testing.T) {
		text := strings.Repeat("a", 200)
		got := snippet(text, 50)
		assert.Len(t, got, 53)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		text := strings.Repeat("é", 10)
		assert.Equal(t, "éééé...", snippet(text, 4))
	})
}

func TestRenderReport(t *testing.T) {
	analysis := "## Executive Summary\n\nStrong position overall."
	got := renderReport(analysis + "\n\n")

	assert.True(t, strings.HasPrefix(got, "# Competitor Analysis Report\n\n"))
	assert.Contains(t, got, "Generated on: ")
	assert.Contains(t, got, analysis)
	assert.True(t, strings.HasSuffix(got, "Strong position overall.\n"))
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "verbose")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "debug", level)
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}
