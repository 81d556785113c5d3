package service

import (
	"fmt"
	"strings"
	"time"

	"clinic-admin/internal/model"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CatalogService serves the read-only mock data behind the dashboard's
// list pages.
type CatalogService struct {
	clinics      []model.Clinic
	patients     []model.Patient
	doctors      []model.Doctor
	staff        []model.StaffMember
	appointments []model.Appointment
	now          func() time.Time
}

func NewCatalogService() *CatalogService {
	s := &CatalogService{now: time.Now}
	s.seed()
	return s
}

func (s *CatalogService) Clinics(q model.ListQuery) ([]model.Clinic, model.Meta) {
	return paginate(s.clinics, q, func(c model.Clinic) (string, []string) {
		return c.Status, []string{c.Name, c.Address, c.Email}
	})
}

func (s *CatalogService) Patients(q model.ListQuery) ([]model.Patient, model.Meta) {
	return paginate(s.patients, q, func(p model.Patient) (string, []string) {
		return "", []string{p.FirstName + " " + p.LastName, p.Email, p.Phone}
	})
}

func (s *CatalogService) Doctors(q model.ListQuery) ([]model.Doctor, model.Meta) {
	return paginate(s.doctors, q, func(d model.Doctor) (string, []string) {
		return d.Status, []string{d.Name, d.Specialization, d.Email}
	})
}

func (s *CatalogService) Staff(q model.ListQuery) ([]model.StaffMember, model.Meta) {
	return paginate(s.staff, q, func(m model.StaffMember) (string, []string) {
		return m.Status, []string{m.Name, m.Role, m.Email}
	})
}

func (s *CatalogService) Appointments(q model.ListQuery) ([]model.Appointment, model.Meta) {
	return paginate(s.appointments, q, func(a model.Appointment) (string, []string) {
		return a.Status, []string{a.PatientName, a.DoctorName, a.ClinicName, a.Type}
	})
}

func (s *CatalogService) Stats() model.DashboardStats {
	today := s.now().UTC().Format(time.DateOnly)
	stats := model.DashboardStats{
		Clinics:  len(s.clinics),
		Patients: len(s.patients),
		Doctors:  len(s.doctors),
	}
	for _, a := range s.appointments {
		if a.Date == today {
			stats.AppointmentsToday++
		}
	}
	return stats
}

// NormalizeQuery applies paging defaults and bounds.
func NormalizeQuery(q model.ListQuery) model.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	return q
}

// paginate filters by exact status and case-insensitive search over the
// fields describe returns, then cuts the requested page.
func paginate[T any](items []T, q model.ListQuery, describe func(T) (status string, fields []string)) ([]T, model.Meta) {
	q = NormalizeQuery(q)
	needle := strings.ToLower(q.Search)

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		status, fields := describe(item)
		if q.Status != "" && !strings.EqualFold(status, q.Status) {
			continue
		}
		if needle != "" && !anyContains(fields, needle) {
			continue
		}
		filtered = append(filtered, item)
	}

	meta := model.NewMeta(q.Page, q.Limit, len(filtered))
	start := (q.Page - 1) * q.Limit
	if start >= len(filtered) {
		return []T{}, meta
	}
	end := min(start+q.Limit, len(filtered))
	return filtered[start:end], meta
}

func anyContains(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (s *CatalogService) seed() {
	clinicNames := []string{"Downtown Family Clinic", "Northside Pediatrics", "Riverside Dental", "Lakeview Cardiology", "Westend Dermatology"}
	plans := []string{"basic", "premium", "enterprise"}
	for i, name := range clinicNames {
		status := "active"
		if i == 3 {
			status = "inactive"
		}
		s.clinics = append(s.clinics, model.Clinic{
			ID:                fmt.Sprintf("c%d", i+1),
			Name:              name,
			Address:           fmt.Sprintf("%d Main Street", 100+i*10),
			Phone:             fmt.Sprintf("+1 555 010%d", i),
			Email:             fmt.Sprintf("info@clinic%d.example", i+1),
			Status:            status,
			Subscription:      plans[i%len(plans)],
			PatientCount:      120 + i*37,
			DailyAppointments: 8 + i*3,
		})
	}

	specializations := []string{"General Practice", "Pediatrics", "Dentistry", "Cardiology", "Dermatology"}
	doctorNames := []string{"Dr. Sarah Chen", "Dr. Omar Haddad", "Dr. Lucia Romero", "Dr. James Okafor", "Dr. Mei Tanaka", "Dr. Peter Novak", "Dr. Aisha Bello", "Dr. Henrik Larsen"}
	for i, name := range doctorNames {
		status := "active"
		if i%4 == 3 {
			status = "on_leave"
		}
		s.doctors = append(s.doctors, model.Doctor{
			ID:             fmt.Sprintf("d%d", i+1),
			Name:           name,
			Specialization: specializations[i%len(specializations)],
			Email:          fmt.Sprintf("doctor%d@clinic.example", i+1),
			Phone:          fmt.Sprintf("+1 555 020%d", i),
			ClinicID:       s.clinics[i%len(s.clinics)].ID,
			Status:         status,
			Experience:     3 + i*2,
		})
	}

	staffRoles := []string{"receptionist", "nurse", "lab technician", "billing clerk"}
	staffNames := []string{"Nina Patel", "Carlos Mendes", "Grace Kim", "Tom Walsh", "Fatima Zahra", "Liam Murphy"}
	for i, name := range staffNames {
		status := "active"
		if i == 4 {
			status = "inactive"
		}
		s.staff = append(s.staff, model.StaffMember{
			ID:       fmt.Sprintf("s%d", i+1),
			Name:     name,
			Role:     staffRoles[i%len(staffRoles)],
			Email:    fmt.Sprintf("%s@clinic.example", strings.ToLower(strings.Fields(name)[0])),
			ClinicID: s.clinics[i%len(s.clinics)].ID,
			Status:   status,
		})
	}

	firstNames := []string{"Ann", "Brian", "Chloe", "Daniel", "Elena", "Farid", "Gina", "Hugo", "Iris", "Jonas", "Kara", "Leo"}
	lastNames := []string{"Lee", "Singh", "Moreau", "Costa", "Ivanova", "Nasser"}
	bloodTypes := []string{"O+", "A+", "B+", "AB+", "O-", "A-"}
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := range 24 {
		first := firstNames[i%len(firstNames)]
		last := lastNames[i%len(lastNames)]
		gender := "female"
		if i%2 == 1 {
			gender = "male"
		}
		var allergies []string
		if i%5 == 0 {
			allergies = []string{"penicillin"}
		}
		s.patients = append(s.patients, model.Patient{
			ID:          fmt.Sprintf("p%d", i+1),
			FirstName:   first,
			LastName:    last,
			Email:       fmt.Sprintf("%s.%s%d@mail.example", strings.ToLower(first), strings.ToLower(last), i+1),
			Phone:       fmt.Sprintf("+1 555 1%03d", i),
			DateOfBirth: base.AddDate(-20-i, 0, -i*11).Format(time.DateOnly),
			Gender:      gender,
			BloodType:   bloodTypes[i%len(bloodTypes)],
			Allergies:   allergies,
			LastVisit:   base.AddDate(0, 0, i*3).Format(time.DateOnly),
		})
	}

	types := []string{"consultation", "follow-up", "check-up", "emergency"}
	statuses := []string{"scheduled", "confirmed", "completed", "cancelled"}
	today := s.now().UTC()
	for i := range 30 {
		patient := s.patients[i%len(s.patients)]
		doctor := s.doctors[i%len(s.doctors)]
		clinic := s.clinics[i%len(s.clinics)]
		s.appointments = append(s.appointments, model.Appointment{
			ID:          fmt.Sprintf("a%d", i+1),
			PatientName: patient.FirstName + " " + patient.LastName,
			DoctorName:  doctor.Name,
			ClinicName:  clinic.Name,
			Type:        types[i%len(types)],
			Status:      statuses[i%len(statuses)],
			Date:        today.AddDate(0, 0, i/6-2).Format(time.DateOnly),
			Time:        fmt.Sprintf("%02d:%02d", 9+i%8, (i%2)*30),
			Duration:    30,
			Price:       float64(60 + (i%4)*25),
		})
	}
}
