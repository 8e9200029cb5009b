package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/nanotodos/formats"
	"github.com/arthur-debert/nanotodos/nanotodos"
	"github.com/arthur-debert/nanotodos/search"
	"github.com/arthur-debert/nanotodos/types"
	"github.com/spf13/cobra"
)

// addCommands adds all the CLI commands
func (cli *CLI) addCommands() {
	cli.addConfigCommand()

	cli.addListsCommand()
	cli.addShowCommand()
	cli.addNewCommand()
	cli.addRenameCommand()
	cli.addRemoveCommand()

	cli.addTodoCommands()

	cli.addExportCommand()
	cli.addImportCommand()
	cli.addSeedCommand()
	cli.addFindCommand()

	cli.addUserCommands()
}

// validateTitle trims a title and checks it against the configured length
func (cli *CLI) validateTitle(operation, kind, title string) (string, error) {
	title = strings.TrimSpace(title)
	maxLen := cli.viperInst.GetInt("max-title")
	if maxLen <= 0 {
		maxLen = defaultMaxTitle
	}
	if title == "" {
		return "", NewValidationError(operation, kind+" title", title,
			fmt.Sprintf("The %s title is required.", kind))
	}
	if n := utf8.RuneCountInString(title); n > maxLen {
		return "", NewValidationError(operation, kind+" title", title,
			fmt.Sprintf("%s title must be between 1 and %d characters.", capitalize(kind), maxLen))
	}
	return title, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// requireList parses a list id and checks that it exists
func requireList(ctx context.Context, todos *nanotodos.Todos, operation, raw string) (int64, error) {
	listID := nanotodos.ParseID(raw)
	ok, err := todos.IsValidList(ctx, listID)
	if err != nil {
		return 0, WrapError(operation, err)
	}
	if !ok {
		return 0, NewNotFoundError(operation, "todo list", raw, CommonSuggestions.CheckListID)
	}
	return listID, nil
}

// requireTodo parses list and todo ids and checks the todo is in the list
func requireTodo(ctx context.Context, todos *nanotodos.Todos, operation, rawList, rawTodo string) (int64, int64, error) {
	listID := nanotodos.ParseID(rawList)
	todoID := nanotodos.ParseID(rawTodo)
	ok, err := todos.IsValidListAndTodo(ctx, listID, todoID)
	if err != nil {
		return 0, 0, WrapError(operation, err)
	}
	if !ok {
		return 0, 0, NewNotFoundError(operation, "todo", rawTodo, CommonSuggestions.CheckTodoID)
	}
	return listID, todoID, nil
}

// addConfigCommand adds the config command to show current configuration
func (cli *CLI) addConfigCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Long: `Display the effective configuration from all sources (flags, env vars, config file).

Examples:
  nanotodos config
  NANOTODOS_DRIVER=json nanotodos config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := map[string]interface{}{}
			for _, key := range []string{"driver", "db", "format", "log-level", "log-queries", "max-title"} {
				settings[key] = cli.viperInst.Get(key)
			}
			if used := cli.viperInst.ConfigFileUsed(); used != "" {
				settings["config-file"] = used
			}
			if cli.loggers != nil {
				settings["log-file"] = cli.loggers.logPath
			}
			format := cli.viperInst.GetString("format")
			if format != "json" && format != "yaml" {
				s, err := NewOutputFormatter("yaml").Format(settings)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
				return err
			}
			return cli.print(cmd.OutOrStdout(), settings)
		},
	})
}

func (cli *CLI) addListsCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:     "lists",
		Aliases: []string{"ls"},
		Short:   "List all todo lists, unfinished first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withTodos(cmd, "list todo lists", func(ctx context.Context, todos *nanotodos.Todos) error {
				summaries, err := todos.Summaries(ctx)
				if err != nil {
					return WrapError("list todo lists", err, CommonSuggestions.CheckDB)
				}
				return cli.print(cmd.OutOrStdout(), summaries)
			})
		},
	})
}

func (cli *CLI) addShowCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "show <list>",
		Short: "Show a todo list with its todos, unfinished first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "show todo list"
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				list, err := todos.LoadList(ctx, nanotodos.ParseID(args[0]))
				if errors.Is(err, types.ErrNotFound) {
					return NewNotFoundError(op, "todo list", args[0], CommonSuggestions.CheckListID)
				}
				if err != nil {
					return WrapError(op, err)
				}
				sorted, err := todos.SortedTodos(ctx, *list)
				if err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), listView{
					ID:     list.ID,
					Title:  list.Title,
					IsDone: todos.IsDoneList(*list),
					Todos:  sorted,
				})
			})
		},
	})
}

func (cli *CLI) addNewCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "new <title>",
		Short: "Create a new todo list",
		Long: `Create a new, empty todo list. Titles must be unique (case-sensitive).

Examples:
  nanotodos new "Groceries"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "create todo list"
			title, err := cli.validateTitle(op, "list", args[0])
			if err != nil {
				return err
			}
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				id, err := todos.CreateList(ctx, title)
				if err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "The todo list has been created.", ID: id})
			})
		},
	})
}

func (cli *CLI) addRenameCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "rename <list> <title>",
		Short: "Rename a todo list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "rename todo list"
			title, err := cli.validateTitle(op, "list", args[1])
			if err != nil {
				return err
			}
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, err := requireList(ctx, todos, op, args[0])
				if err != nil {
					return err
				}
				if err := todos.Rename(ctx, listID, title); err != nil {
					return WrapError(op, err, CommonSuggestions.CheckListID)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "Todo list updated.", ID: listID})
			})
		},
	})
}

func (cli *CLI) addRemoveCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "rm <list>",
		Short: "Delete a todo list and all of its todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "delete todo list"
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, err := requireList(ctx, todos, op, args[0])
				if err != nil {
					return err
				}
				if err := todos.DeleteList(ctx, listID); err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "Todo list deleted.", ID: listID})
			})
		},
	})
}

// addTodoCommands adds the commands that act on single todos
func (cli *CLI) addTodoCommands() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "add <list> <title>",
		Short: "Add a todo to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "add todo"
			title, err := cli.validateTitle(op, "todo", args[1])
			if err != nil {
				return err
			}
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, err := requireList(ctx, todos, op, args[0])
				if err != nil {
					return err
				}
				id, err := todos.AddTodo(ctx, listID, title)
				if err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "The todo has been created.", ID: id})
			})
		},
	})

	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "toggle <list> <todo>",
		Short: "Mark a todo done, or not done if it already is",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "toggle todo"
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, todoID, err := requireTodo(ctx, todos, op, args[0], args[1])
				if err != nil {
					return err
				}
				if err := todos.ToggleTodo(ctx, listID, todoID); err != nil {
					return WrapError(op, err)
				}
				todo, err := todos.LoadTodo(ctx, listID, todoID)
				if err != nil {
					return WrapError(op, err)
				}
				msg := fmt.Sprintf("%q marked as NOT done!", todo.Title)
				if todo.Done {
					msg = fmt.Sprintf("%q marked done.", todo.Title)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: msg, ID: todoID})
			})
		},
	})

	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "done-all <list>",
		Short: "Mark every todo in a list done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "complete all todos"
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, err := requireList(ctx, todos, op, args[0])
				if err != nil {
					return err
				}
				if err := todos.CompleteAllTodos(ctx, listID); err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "All todos have been marked as done.", ID: listID})
			})
		},
	})

	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "rm-todo <list> <todo>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "delete todo"
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, todoID, err := requireTodo(ctx, todos, op, args[0], args[1])
				if err != nil {
					return err
				}
				if err := todos.DeleteTodo(ctx, listID, todoID); err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "The todo has been deleted.", ID: todoID})
			})
		},
	})
}

func (cli *CLI) addExportCommand() {
	exportCmd := &cobra.Command{
		Use:   "export <list>",
		Short: "Write a todo list as a text document",
		Long: fmt.Sprintf(`Write a todo list, unfinished todos first, in one of the registered formats.

Formats: %s

Examples:
  nanotodos export 3
  nanotodos export 3 --as markdown --output work.md`, strings.Join(formats.List(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "export todo list"
			formatName, _ := cmd.Flags().GetString("as")
			output, _ := cmd.Flags().GetString("output")
			format, err := formats.Get(formatName)
			if err != nil {
				return NewValidationError(op, "format", formatName, "Available formats: "+strings.Join(formats.List(), ", "))
			}

			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				list, err := todos.LoadList(ctx, nanotodos.ParseID(args[0]))
				if errors.Is(err, types.ErrNotFound) {
					return NewNotFoundError(op, "todo list", args[0], CommonSuggestions.CheckListID)
				}
				if err != nil {
					return WrapError(op, err)
				}
				sorted, err := todos.SortedTodos(ctx, *list)
				if err != nil {
					return WrapError(op, err)
				}
				list.Todos = sorted
				doc := format.Serialize(*list)

				if output == "" {
					_, err := io.WriteString(cmd.OutOrStdout(), doc)
					return err
				}
				if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
					return NewStoreError(op, err, CommonSuggestions.CheckPerms)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: fmt.Sprintf("Exported %q to %s.", list.Title, output), ID: list.ID})
			})
		},
	}
	exportCmd.Flags().String("as", formats.PlainText.Name, "Document format")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	cli.rootCmd.AddCommand(exportCmd)
}

func (cli *CLI) addImportCommand() {
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a todo list from a text document",
		Long: `Create a todo list from a document written by export (or by hand).

The format comes from --as, or from the file extension. A document
without a title uses the file name.

Examples:
  nanotodos import work.md
  nanotodos import notes.txt --as plaintext`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "import todo list"
			path := args[0]

			formatName, _ := cmd.Flags().GetString("as")
			var (
				format *formats.ListFormat
				err    error
			)
			if formatName != "" {
				format, err = formats.Get(formatName)
			} else {
				format, err = formats.ForExtension(filepath.Ext(path))
			}
			if err != nil {
				return NewValidationError(op, "format", formatName, "Use --as with one of: "+strings.Join(formats.List(), ", "))
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return NewStoreError(op, err, CommonSuggestions.CheckPerms)
			}
			parsed, err := format.Deserialize(string(raw))
			if err != nil {
				return NewValidationError(op, "document", path, err.Error())
			}
			if parsed.Title == "" {
				parsed.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			title, err := cli.validateTitle(op, "list", parsed.Title)
			if err != nil {
				return err
			}
			for i := range parsed.Todos {
				if parsed.Todos[i].Title, err = cli.validateTitle(op, "todo", parsed.Todos[i].Title); err != nil {
					return err
				}
			}

			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				listID, err := todos.CreateList(ctx, title)
				if err != nil {
					return WrapError(op, err)
				}
				for _, todo := range parsed.Todos {
					todoID, err := todos.AddTodo(ctx, listID, todo.Title)
					if err != nil {
						return WrapError(op, err)
					}
					if todo.Done {
						if err := todos.ToggleTodo(ctx, listID, todoID); err != nil {
							return WrapError(op, err)
						}
					}
				}
				return cli.print(cmd.OutOrStdout(), message{
					Message: fmt.Sprintf("Imported %q with %d todos.", title, len(parsed.Todos)),
					ID:      listID,
				})
			})
		},
	}
	importCmd.Flags().String("as", "", "Document format (default: from the file extension)")
	cli.rootCmd.AddCommand(importCmd)
}

func (cli *CLI) addSeedCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load the demo todo lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "seed demo data"
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				n, err := todos.Seed(ctx)
				if err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: fmt.Sprintf("Seeded %d todo lists.", n)})
			})
		},
	})
}

func (cli *CLI) addFindCommand() {
	findCmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Search list and todo titles",
		Long: `Search list and todo titles, best matches first.

Examples:
  nanotodos find milk
  nanotodos find "Buy milk" --exact
  nanotodos find go --in todo --pending`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "search"
			flags := cmd.Flags()
			options := search.Options{Query: args[0], EnableHighlight: true}
			options.Fields, _ = flags.GetStringSlice("in")
			options.ExactMatch, _ = flags.GetBool("exact")
			options.CaseSensitive, _ = flags.GetBool("case-sensitive")
			options.PendingOnly, _ = flags.GetBool("pending")
			if limit, _ := flags.GetInt("limit"); limit > 0 {
				options.MaxResults = &limit
			}
			for _, field := range options.Fields {
				if field != search.FieldList && field != search.FieldTodo {
					return NewValidationError(op, "field", field, "Use --in list, --in todo, or both")
				}
			}

			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				results, err := todos.Search(ctx, options)
				if err != nil {
					return WrapError(op, err, CommonSuggestions.CheckDB)
				}
				return cli.print(cmd.OutOrStdout(), results)
			})
		},
	}
	findCmd.Flags().StringSlice("in", nil, "Where to search: list, todo (default both)")
	findCmd.Flags().Bool("exact", false, "Match whole titles only")
	findCmd.Flags().Bool("case-sensitive", false, "Match case exactly")
	findCmd.Flags().Bool("pending", false, "Skip todos that are done")
	findCmd.Flags().Int("limit", 0, "Maximum number of results (0 for all)")
	cli.rootCmd.AddCommand(findCmd)
}

// readPassword takes the --password flag, or the first line of stdin
func readPassword(cmd *cobra.Command) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// addUserCommands adds useradd and login
func (cli *CLI) addUserCommands() {
	userAddCmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Store a login (password from --password or stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "add user"
			password, err := readPassword(cmd)
			if err != nil {
				return NewValidationError(op, "password", "", err.Error())
			}
			if password == "" {
				return NewValidationError(op, "password", "", "Pass --password or write the password to stdin")
			}
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				err := todos.AddUser(ctx, args[0], password)
				if nanotodos.IsUniqueConstraintViolation(err) {
					return &CLIError{
						Operation:  op,
						Cause:      fmt.Sprintf("user %q already exists", args[0]),
						Underlying: err,
						exitCode:   exitFailure,
					}
				}
				if err != nil {
					return WrapError(op, err)
				}
				return cli.print(cmd.OutOrStdout(), message{Message: fmt.Sprintf("User %q added.", args[0])})
			})
		},
	}
	userAddCmd.Flags().String("password", "", "Password (read from stdin when empty)")
	cli.rootCmd.AddCommand(userAddCmd)

	loginCmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Check a username and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "sign in"
			password, err := readPassword(cmd)
			if err != nil {
				return NewValidationError(op, "password", "", err.Error())
			}
			return cli.withTodos(cmd, op, func(ctx context.Context, todos *nanotodos.Todos) error {
				ok, err := todos.Authenticate(ctx, args[0], password)
				if err != nil {
					return WrapError(op, err)
				}
				if !ok {
					return &CLIError{Operation: op, Cause: "invalid credentials", exitCode: exitFailure}
				}
				return cli.print(cmd.OutOrStdout(), message{Message: "Welcome!"})
			})
		},
	}
	loginCmd.Flags().String("password", "", "Password (read from stdin when empty)")
	cli.rootCmd.AddCommand(loginCmd)
}
