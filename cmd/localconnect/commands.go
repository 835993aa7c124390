package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pbaille/localconnect/internal/api"
	"github.com/pbaille/localconnect/internal/cli/ui"
	"github.com/pbaille/localconnect/internal/dialer"
	"github.com/pbaille/localconnect/internal/directory"
	"github.com/pbaille/localconnect/internal/domain"
	"github.com/pbaille/localconnect/internal/events"
	"github.com/pbaille/localconnect/internal/importer"
	"github.com/pbaille/localconnect/internal/pass"
	"github.com/pbaille/localconnect/internal/profile"
	"github.com/pbaille/localconnect/internal/query"
	"github.com/pbaille/localconnect/internal/session"
	"github.com/pbaille/localconnect/internal/view"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entries, categories, err := directory.Load(cmd.Context(), a.source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := ui.NewTable(out, []string{"ID", "Category", "Description", "Count"}, noColor)
			for _, c := range directory.CategoryCounts(entries, categories) {
				table.AddRow(c.ID, c.DisplayName, c.Description, strconv.Itoa(c.Count))
			}
			table.Render()
			return nil
		},
	}
}

func browseCmd() *cobra.Command {
	var (
		search    string
		sortKey   string
		viewMode  string
		favorites []string
		recents   []string
		page      int
	)

	cmd := &cobra.Command{
		Use:   "browse [category]",
		Short: "Browse the professionals of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("favorites") {
				favorites = a.cfg.Session.Favorites
			}
			if !cmd.Flags().Changed("recent") {
				recents = a.cfg.Session.RecentCalls
			}

			st := session.SelectCategory(session.NewState(favorites, recents), args[0])
			st = session.SetSearchText(st, search)
			if st, err = session.SetSortKey(st, domain.SortKey(sortKey)); err != nil {
				return err
			}
			if st, err = session.SetViewMode(st, domain.ViewMode(viewMode)); err != nil {
				return err
			}

			entries, categories, err := directory.Load(cmd.Context(), a.source)
			if err != nil {
				return err
			}

			cv := query.DeriveCategoryView(entries, categories, st)
			proj := view.Project(cv.Results, st, view.Options{Page: page, PageSize: a.cfg.View.PageSize})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.tr.T("directory.professionals", map[string]string{"category": st.SelectedCategory}))
			ui.Summary(out, noColor, "%s · %s · %s",
				a.tr.T("directory.found", map[string]string{"count": strconv.Itoa(cv.TotalCount)}),
				a.tr.T("directory.available", map[string]string{"count": strconv.Itoa(cv.AvailableCount)}),
				a.tr.T("directory.sortedBy", map[string]string{"label": proj.SortLabel}),
			)
			a.render(out, proj, st)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name, profession or specialization")
	cmd.Flags().StringVar(&sortKey, "sort", string(domain.SortName), "sort key: name, rating, recent, favorites, availability")
	cmd.Flags().StringVar(&viewMode, "view", string(domain.ViewGrid), "view mode: grid or list")
	cmd.Flags().StringSliceVar(&favorites, "favorites", nil, "favorite entry ids")
	cmd.Flags().StringSliceVar(&recents, "recent", nil, "recently called entry ids, most recent first")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func searchCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search every category, best rated first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.source.Entries(cmd.Context())
			if err != nil {
				return err
			}

			st := session.SetSearchText(session.NewState(a.cfg.Session.Favorites, a.cfg.Session.RecentCalls), strings.Join(args, " "))
			results := query.GlobalSearch(entries, st.SearchText)
			proj := view.ProjectGlobal(results, st, view.Options{Page: page, PageSize: a.cfg.View.PageSize})

			out := cmd.OutOrStdout()
			ui.Summary(out, noColor, "%s", a.tr.T("directory.found", map[string]string{"count": strconv.Itoa(len(results))}))
			a.render(out, proj, st)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func callCmd() *cobra.Command {
	var recents []string

	cmd := &cobra.Command{
		Use:   "call [id]",
		Short: "Call a professional and record it in recent calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("recent") {
				recents = a.cfg.Session.RecentCalls
			}

			entries, err := a.source.Entries(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := directory.FindEntry(entries, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			caller := view.NewCaller(dialer.NewLog(a.logger), a.logger)
			st, err := caller.Call(cmd.Context(), session.NewState(a.cfg.Session.Favorites, recents), entry)
			if errors.Is(err, view.ErrUnavailable) {
				fmt.Fprintln(out, a.tr.T("directory.unavailable", map[string]string{"name": entry.Name}))
				return err
			}

			fmt.Fprintln(out, a.tr.T("directory.calling", map[string]string{"name": entry.Name}))
			ui.Summary(out, noColor, "recent: %s", strings.Join(st.RecentCallIDs, ","))
			return err
		},
	}

	cmd.Flags().StringSliceVar(&recents, "recent", nil, "recently called entry ids, most recent first")
	return cmd
}

func favoriteCmd() *cobra.Command {
	var favorites []string

	cmd := &cobra.Command{
		Use:   "favorite [id]",
		Short: "Toggle an entry in the favorites set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("favorites") {
				favorites = a.cfg.Session.Favorites
			}

			st := session.ToggleFavorite(session.NewState(favorites, nil), args[0])

			out := cmd.OutOrStdout()
			verb := "removed"
			if st.FavoriteIDs.Has(args[0]) {
				verb = "added"
			}
			fmt.Fprintf(out, "%s %s\n", verb, args[0])
			ui.Summary(out, noColor, "favorites: %s", strings.Join(st.FavoriteIDs.Slice(), ","))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&favorites, "favorites", nil, "favorite entry ids")
	return cmd
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the resident profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ps := profile.NewStore(profile.Profile{
				Name:    a.cfg.Profile.Name,
				Phone:   a.cfg.Profile.Phone,
				Email:   a.cfg.Profile.Email,
				Address: a.cfg.Profile.Address,
			})
			p := ps.Profile()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.tr.T("home.greeting", map[string]string{"name": ps.DisplayName()}))
			table := ui.NewTable(out, []string{"Field", "Value"}, noColor)
			table.AddRow("Phone", p.Phone)
			table.AddRow("Email", p.Email)
			table.AddRow("Address", p.Address)
			table.Render()
			return nil
		},
	}
}

func passCmd() *cobra.Command {
	var (
		req  pass.Request
		vip  bool
		save bool
	)

	cmd := &cobra.Command{
		Use:   "pass",
		Short: "Generate a QR visitor pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			req.PassType = pass.Visitor
			if vip {
				req.PassType = pass.VIP
			}

			gen := pass.NewGenerator(a.cfg.Pass.AlbumDir, a.cfg.Pass.Size, a.logger)
			p, err := gen.Generate(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.Title)
			table := ui.NewTable(out, []string{"Field", "Value"}, noColor)
			table.AddRow("Visitor", p.Request.VisitorName)
			table.AddRow("Purpose", p.Request.Purpose)
			table.AddRow("From", p.Request.FromDate+" "+p.Request.FromTime)
			table.AddRow("To", p.Request.ToDate+" "+p.Request.ToTime)
			table.AddRow("Code", p.Payload)
			table.Render()

			if save {
				path, err := gen.Save(p)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, a.tr.T("pass.saved", map[string]string{"path": path}))
			}
			ui.Summary(out, noColor, "%s", a.tr.T("pass.scan", nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.VisitorName, "name", "", "visitor name")
	cmd.Flags().StringVar(&req.Purpose, "purpose", "", "purpose of visit")
	cmd.Flags().StringVar(&req.FromDate, "from", "", "first day of the visit")
	cmd.Flags().StringVar(&req.ToDate, "to", "", "last day of the visit")
	cmd.Flags().StringVar(&req.FromTime, "from-time", "", "start time")
	cmd.Flags().StringVar(&req.ToTime, "to-time", "", "end time")
	cmd.Flags().StringVar(&req.RecordID, "record", "", "registration record id")
	cmd.Flags().StringVar(&req.VisitorID, "visitor-id", "", "issued visitor id, encoded instead of the record id")
	cmd.Flags().BoolVar(&vip, "vip", false, "generate a VIP pass")
	cmd.Flags().BoolVar(&save, "save", false, "save the PNG to the pass album")
	return cmd
}

func eventsCmd() *cobra.Command {
	var (
		search   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List community events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			c := events.Category(category)
			if c != events.All && !c.Valid() {
				return fmt.Errorf("unknown event category %q", category)
			}

			out := cmd.OutOrStdout()
			found := events.Filter(events.SeedEvents(), search, c)
			if len(found) == 0 {
				fmt.Fprintln(out, a.tr.T("events.noEventsFound", nil))
				return nil
			}

			special, regular := events.Split(found)
			for _, section := range []struct {
				key  string
				list []events.Event
			}{
				{"events.specialEvents", special},
				{"events.regularEvents", regular},
			} {
				if len(section.list) == 0 {
					continue
				}
				fmt.Fprintln(out, a.tr.T(section.key, nil))
				table := ui.NewTable(out, []string{"ID", "Title", "Date", "Time", "Location", "Organizer"}, noColor)
				for _, e := range section.list {
					table.AddRow(e.ID, e.Title, e.Date, e.Time, e.Location, e.Organizer)
				}
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by title, description, location or organizer")
	cmd.Flags().StringVar(&category, "category", string(events.All), "all, regular or special")
	cmd.AddCommand(addEventCmd())
	return cmd
}

func addEventCmd() *cobra.Command {
	var d events.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate and add a community event",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := events.NewStore(events.SeedEvents(), a.logger).Add(d)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.tr.T("events.created", nil))
			table := ui.NewTable(out, []string{"ID", "Title", "Date", "Time", "Category"}, noColor)
			table.AddRow(e.ID, e.Title, e.Date, e.Time, string(e.Category))
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&d.Title, "title", "", "event title")
	cmd.Flags().StringVar(&d.Date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&d.StartTime, "start", "7:00 PM", "start time")
	cmd.Flags().StringVar(&d.EndTime, "end", "9:00 PM", "end time")
	cmd.Flags().StringVar(&d.Location, "location", "", "where it happens")
	cmd.Flags().StringVar(&d.Description, "description", "", "what it is about")
	cmd.Flags().StringVar(&d.Organizer, "organizer", "", "organizing committee")
	cmd.Flags().StringVar((*string)(&d.Category), "category", string(events.Regular), "regular or special")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file-or-url]",
		Short: "Import directory entries from an HTML table into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.store
			if s == nil {
				if s, err = openStore(cmd.Context(), a.cfg.Database.Path, a.logger); err != nil {
					return err
				}
				defer s.Close()
			}

			entries, err := importer.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.ImportEntries(cmd.Context(), entries); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries into %s\n", len(entries), a.cfg.Database.Path)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ps := profile.NewStore(profile.Profile{
				Name:    a.cfg.Profile.Name,
				Phone:   a.cfg.Profile.Phone,
				Email:   a.cfg.Profile.Email,
				Address: a.cfg.Profile.Address,
			})

			srv := api.New(api.Deps{
				Source:     a.source,
				Sessions:   session.NewManager(a.cfg.Session.Favorites, a.cfg.Session.RecentCalls, a.logger),
				Caller:     view.NewCaller(dialer.NewLog(a.logger), a.logger),
				Passes:     pass.NewGenerator(a.cfg.Pass.AlbumDir, a.cfg.Pass.Size, a.logger),
				Profile:    ps,
				Events:     events.NewStore(events.SeedEvents(), a.logger),
				Translator: a.tr,
				PageSize:   a.cfg.View.PageSize,
				Logger:     a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on %s\n", addr)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// render prints a projection as a table. List mode adds the contact column.
func (a *app) render(out io.Writer, proj view.Projection, st domain.QueryState) {
	if proj.Empty != nil {
		params := map[string]string{"category": strings.ToLower(st.SelectedCategory)}
		fmt.Fprintln(out, a.tr.T(proj.Empty.TitleKey, params))
		ui.Summary(out, noColor, "%s", a.tr.T(proj.Empty.MessageKey, params))
		return
	}

	headers := []string{"ID", "", "Name", "Profession", "Specialization", "Flat", "Rating", "Status"}
	if proj.Mode == domain.ViewList {
		headers = append(headers, "Contact")
	}
	table := ui.NewTable(out, headers, noColor)
	for _, it := range proj.Items {
		row := []string{
			it.ID,
			flags(it),
			it.Name,
			it.Profession,
			it.Specialization,
			it.FlatNumber,
			strconv.FormatFloat(it.Rating, 'f', 1, 64),
			ui.Status(string(it.Availability), noColor),
		}
		if proj.Mode == domain.ViewList {
			row = append(row, it.ContactNumber)
		}
		table.AddRow(row...)
	}
	table.Render()

	if proj.TotalPages > 1 {
		ui.Summary(out, noColor, "page %d/%d", proj.Page, proj.TotalPages)
	}
}

func flags(it view.Item) string {
	var sb strings.Builder
	if it.IsFavorite {
		sb.WriteString("★")
	}
	if it.IsRecent {
		sb.WriteString("↻")
	}
	if it.IsOnline {
		sb.WriteString("●")
	}
	return sb.String()
}
