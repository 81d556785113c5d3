package shell

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"clinic-admin/internal/apiclient"
	"clinic-admin/internal/model"
	"clinic-admin/internal/navigation"
)

const pageSize = 10

type view func(ctx context.Context, s *Shell, loc navigation.Location) error

var views = map[string]view{
	"/":                dashboardView,
	"/clinics":         clinicsView,
	"/patients":        patientsView,
	"/doctors":         doctorsView,
	"/staff":           staffView,
	"/appointments":    appointmentsView,
	"/profile":         profileView,
	"/medical-records": notImplemented("Medical Records"),
	"/inventory":       notImplemented("Inventory"),
	"/billing":         notImplemented("Billing"),
	"/reports":         notImplemented("Reports"),
	"/settings":        notImplemented("Settings"),
}

func notImplemented(title string) view {
	return func(_ context.Context, s *Shell, _ navigation.Location) error {
		heading(s, title)
		fmt.Fprintln(s.out, "This page is not implemented yet.")
		return nil
	}
}

func heading(s *Shell, title string) {
	fmt.Fprintf(s.out, "── %s %s\n", title, strings.Repeat("─", max(0, 36-len(title))))
}

func dashboardView(ctx context.Context, s *Shell, _ navigation.Location) error {
	stats, err := s.api.Stats(ctx)
	if err != nil {
		return err
	}

	heading(s, "Dashboard")
	if user := s.store.User(); user != nil {
		fmt.Fprintf(s.out, "Signed in as %s (%s)\n", user.Name, user.Role)
	}
	tw := table(s)
	fmt.Fprintf(tw, "Clinics\t%d\n", stats.Clinics)
	fmt.Fprintf(tw, "Patients\t%d\n", stats.Patients)
	fmt.Fprintf(tw, "Doctors\t%d\n", stats.Doctors)
	fmt.Fprintf(tw, "Appointments today\t%d\n", stats.AppointmentsToday)
	return tw.Flush()
}

func clinicsView(ctx context.Context, s *Shell, loc navigation.Location) error {
	page, err := apiclient.List[model.Clinic](ctx, s.api, apiclient.ClinicsPath, query(loc))
	if err != nil {
		return err
	}

	heading(s, "Clinics")
	tw := table(s)
	fmt.Fprintln(tw, "NAME\tSTATUS\tPLAN\tPATIENTS\tTODAY")
	for _, c := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", c.Name, c.Status, c.Subscription, c.PatientCount, c.DailyAppointments)
	}
	return footer(s, tw, len(page.Items), page.Meta)
}

func patientsView(ctx context.Context, s *Shell, loc navigation.Location) error {
	page, err := apiclient.List[model.Patient](ctx, s.api, apiclient.PatientsPath, query(loc))
	if err != nil {
		return err
	}

	heading(s, "Patients")
	tw := table(s)
	fmt.Fprintln(tw, "NAME\tEMAIL\tPHONE\tBLOOD\tLAST VISIT")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s\n", p.FirstName, p.LastName, p.Email, p.Phone, p.BloodType, p.LastVisit)
	}
	return footer(s, tw, len(page.Items), page.Meta)
}

func doctorsView(ctx context.Context, s *Shell, loc navigation.Location) error {
	page, err := apiclient.List[model.Doctor](ctx, s.api, apiclient.DoctorsPath, query(loc))
	if err != nil {
		return err
	}

	heading(s, "Doctors")
	tw := table(s)
	fmt.Fprintln(tw, "NAME\tSPECIALIZATION\tSTATUS\tYEARS")
	for _, d := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", d.Name, d.Specialization, d.Status, d.Experience)
	}
	return footer(s, tw, len(page.Items), page.Meta)
}

func staffView(ctx context.Context, s *Shell, loc navigation.Location) error {
	page, err := apiclient.List[model.StaffMember](ctx, s.api, apiclient.StaffPath, query(loc))
	if err != nil {
		return err
	}

	heading(s, "Staff")
	tw := table(s)
	fmt.Fprintln(tw, "NAME\tROLE\tSTATUS\tEMAIL")
	for _, m := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Role, m.Status, m.Email)
	}
	return footer(s, tw, len(page.Items), page.Meta)
}

func appointmentsView(ctx context.Context, s *Shell, loc navigation.Location) error {
	page, err := apiclient.List[model.Appointment](ctx, s.api, apiclient.AppointmentsPath, query(loc))
	if err != nil {
		return err
	}

	heading(s, "Appointments")
	tw := table(s)
	fmt.Fprintln(tw, "DATE\tTIME\tPATIENT\tDOCTOR\tTYPE\tSTATUS")
	for _, a := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.Date, a.Time, a.PatientName, a.DoctorName, a.Type, a.Status)
	}
	return footer(s, tw, len(page.Items), page.Meta)
}

func profileView(ctx context.Context, s *Shell, _ navigation.Location) error {
	me, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	activity, err := s.api.Activity(ctx, pageSize)
	if err != nil {
		return err
	}

	heading(s, "Profile")
	tw := table(s)
	fmt.Fprintf(tw, "Name\t%s\n", me.Name)
	fmt.Fprintf(tw, "Email\t%s\n", me.Email)
	fmt.Fprintf(tw, "Role\t%s\n", me.Role)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nRecent activity")
	tw = table(s)
	fmt.Fprintln(tw, "WHEN\tACTION\tFROM")
	for _, a := range activity {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.OccurredAt.Local().Format("2006-01-02 15:04"), a.Action, a.ClientIP)
	}
	return tw.Flush()
}

func query(loc navigation.Location) model.ListQuery {
	return model.ListQuery{Search: loc.Search, Page: 1, Limit: pageSize}
}

func table(s *Shell) *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
}

func footer(s *Shell, tw *tabwriter.Writer, shown int, meta model.Meta) error {
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d of %d\n", shown, meta.Total)
	return nil
}
