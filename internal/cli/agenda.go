package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quebra-tigela/internal/agenda"
	"github.com/example/quebra-tigela/internal/calendar"
	"github.com/example/quebra-tigela/internal/recurrence"
	"github.com/example/quebra-tigela/internal/schedule"
	"github.com/example/quebra-tigela/internal/views"
)

var artistPermissions = views.Permissions{CanCancel: true, CanDelete: true}

func (a *App) cmdAgenda(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "uso: quebratigela agenda list|calendar|day|create|cancel|delete [opções]")
		return errUsage
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.agendaList(ctx, rest)
	case "calendar":
		return a.agendaCalendar(ctx, rest)
	case "day":
		return a.agendaDay(ctx, rest)
	case "create":
		return a.agendaCreate(ctx, rest)
	case "cancel":
		return a.agendaMutate(ctx, "cancel", rest)
	case "delete":
		return a.agendaMutate(ctx, "delete", rest)
	}
	fmt.Fprintf(a.out, "subcomando desconhecido: agenda %s\n", sub)
	return errUsage
}

// loadAgenda builds the agenda of the signed-in artist. Load failures were
// already reported by the agenda notifier.
func (a *App) loadAgenda(ctx context.Context, reload bool) (*agenda.Agenda, error) {
	artistID := a.artistID()
	if artistID == "" {
		return nil, agenda.ErrNoArtist
	}
	ag := agenda.New(a.schedule, agenda.Options{
		ArtistID:  artistID,
		Notifier:  a.console,
		Confirmer: a.console,
		Now:       a.now,
		Logger:    a.logger,
	})
	if reload {
		if err := ag.Reload(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", errReported, err)
		}
	}
	return ag, nil
}

func (a *App) agendaList(ctx context.Context, args []string) error {
	fs := a.newFlags("agenda list", "agenda list [-from AAAA-MM-DD] [-to AAAA-MM-DD] [-status available|booked|cancelled]")
	from := fs.String("from", "", "primeiro dia")
	to := fs.String("to", "", "último dia")
	status := fs.String("status", "", "status do horário")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	ag, err := a.loadAgenda(ctx, true)
	if err != nil {
		return err
	}

	filter := schedule.Filter{DateFrom: *from, DateTo: *to, Status: schedule.Status(*status)}
	var entries []schedule.Entry
	for _, entry := range ag.Entries() {
		if filter.Matches(entry) {
			entries = append(entries, entry)
		}
	}
	return views.RenderList(a.out, entries, views.ModeArtist, artistPermissions)
}

func (a *App) agendaCalendar(ctx context.Context, args []string) error {
	fs := a.newFlags("agenda calendar", "agenda calendar [-month AAAA-MM]")
	month := fs.String("month", "", "mês exibido (padrão: mês atual)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	shown := a.now()
	if *month != "" {
		parsed, err := time.ParseInLocation("2006-01", *month, time.Local)
		if err != nil {
			fs.Usage()
			return errUsage
		}
		shown = parsed
	}
	ag, err := a.loadAgenda(ctx, true)
	if err != nil {
		return err
	}
	return views.RenderMonth(a.out, calendar.Build(shown, ag.Entries(), a.now()))
}

func (a *App) agendaDay(ctx context.Context, args []string) error {
	fs := a.newFlags("agenda day", "agenda day [-date AAAA-MM-DD]")
	date := fs.String("date", "", "dia exibido (padrão: hoje)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	day := a.now()
	if *date != "" {
		parsed, err := schedule.ParseDay(*date, time.Local)
		if err != nil {
			fs.Usage()
			return errUsage
		}
		day = parsed
	}
	ag, err := a.loadAgenda(ctx, true)
	if err != nil {
		return err
	}
	return views.RenderDay(a.out, ag.EntriesForDay(day), day, views.ModeArtist, artistPermissions)
}

func (a *App) agendaCreate(ctx context.Context, args []string) error {
	fs := a.newFlags("agenda create", "agenda create -date AAAA-MM-DD -start HH:MM -end HH:MM [-interval minutos] [-until AAAA-MM-DD [-weekdays seg,qua]] [-notes texto]")
	date := fs.String("date", "", "dia do horário")
	start := fs.String("start", "", "início")
	end := fs.String("end", "", "fim")
	interval := fs.Int("interval", 0, "divide o período em horários consecutivos deste tamanho")
	notes := fs.String("notes", "", "observações")
	service := fs.String("service", "", "id do serviço")
	until := fs.String("until", "", "repete os horários diariamente até este dia")
	weekdays := fs.String("weekdays", "", "restringe a repetição a estes dias da semana (dom,seg,ter,qua,qui,sex,sab)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.require(fs, *date, *start, *end); err != nil {
		return err
	}

	var inputs []schedule.NewEntry
	if *interval > 0 {
		slots, err := schedule.GenerateSlots(*date, *start, *end, *interval, *notes)
		if err != nil {
			return err
		}
		inputs = slots
	} else {
		inputs = []schedule.NewEntry{{Date: *date, StartTime: *start, EndTime: *end, Notes: *notes}}
	}
	for i := range inputs {
		inputs[i].Status = schedule.StatusAvailable
		inputs[i].ServiceID = *service
	}
	if *until != "" {
		rule := recurrence.Rule{Frequency: recurrence.FrequencyDaily, StartsOn: *date, EndsOn: *until}
		if *weekdays != "" {
			days, err := recurrence.ParseWeekdays(*weekdays)
			if err != nil {
				return err
			}
			rule.Frequency = recurrence.FrequencyWeekly
			rule.Weekdays = days
		}
		repeated, err := recurrence.Expand(rule, inputs)
		if err != nil {
			return err
		}
		if len(repeated) == 0 {
			return recurrence.ErrNoWeekdays
		}
		inputs = repeated
	}

	ag, err := a.loadAgenda(ctx, true)
	if err != nil {
		return err
	}
	if err := ag.Create(ctx, inputs); err != nil {
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return nil
}

func (a *App) agendaMutate(ctx context.Context, action string, args []string) error {
	fs := a.newFlags("agenda "+action, "agenda "+action+" ID")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	id, err := a.positional(fs)
	if err != nil {
		return err
	}
	ag, err := a.loadAgenda(ctx, false)
	if err != nil {
		return err
	}
	if action == "cancel" {
		err = ag.Cancel(ctx, id)
	} else {
		err = ag.Delete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return nil
}
