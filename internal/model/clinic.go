package model

import "time"

type Clinic struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Status            string `json:"status"`
	Subscription      string `json:"subscription"`
	PatientCount      int    `json:"patient_count"`
	DailyAppointments int    `json:"daily_appointments"`
}

type Patient struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	DateOfBirth string   `json:"date_of_birth"`
	Gender      string   `json:"gender"`
	BloodType   string   `json:"blood_type"`
	Allergies   []string `json:"allergies"`
	LastVisit   string   `json:"last_visit"`
}

type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ClinicID       string `json:"clinic_id"`
	Status         string `json:"status"`
	Experience     int    `json:"experience"`
}

type StaffMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	ClinicID string `json:"clinic_id"`
	Status   string `json:"status"`
}

type Appointment struct {
	ID          string  `json:"id"`
	PatientName string  `json:"patient_name"`
	DoctorName  string  `json:"doctor_name"`
	ClinicName  string  `json:"clinic_name"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
}

type DashboardStats struct {
	Clinics           int `json:"clinics"`
	Patients          int `json:"patients"`
	Doctors           int `json:"doctors"`
	AppointmentsToday int `json:"appointments_today"`
}

// Activity is one entry of a user's authentication history.
type Activity struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	ClientIP   string    `json:"client_ip"`
	OccurredAt time.Time `json:"occurred_at"`
}
