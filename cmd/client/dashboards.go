package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/medicnotes/medicnotes/internal/client/api"
	"github.com/medicnotes/medicnotes/internal/client/route"
	"github.com/medicnotes/medicnotes/internal/models"
)

// splitFilter separates a trailing ACTIVE/INACTIVE word from a free-text
// query, so "ann INACTIVE" filters by both.
func splitFilter(args []string) (query, status string) {
	if n := len(args); n > 0 {
		last := strings.ToUpper(args[n-1])
		if last == models.StatusActive || last == models.StatusInactive {
			status = last
			args = args[:n-1]
		}
	}
	return strings.Join(args, " "), status
}

func (c *console) adminDashboard() (route.Area, bool) {
	fmt.Println("Admin dashboard. Type 'help' for commands.")
	ctx := context.Background()

	for {
		// A 401 on any call forces a logout; leave the dashboard as soon
		// as that happens.
		if !c.ctrl.State().IsAuthenticated {
			return route.AreaLogin, true
		}

		line, ok := c.prompt("admin> ")
		if !ok {
			return c.area, false
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, overview, profile, admins [query] [status],")
			fmt.Println("  doctors [page] [query] [status], specializations, patients [query] [status],")
			fmt.Println("  register-admin, register-doctor, register-patient,")
			fmt.Println("  doctor-status <id> <ACTIVE|INACTIVE>, delete-admin <id>, delete-doctor <id>,")
			fmt.Println("  delete-patient <id>, logout, exit")
		case "overview":
			c.overview(ctx)
		case "profile":
			c.adminProfile(ctx)
		case "admins":
			c.listAdmins(ctx, args[1:])
		case "doctors":
			c.listDoctors(ctx, args[1:])
		case "specializations":
			specs, err := c.api.Specializations(ctx)
			if err != nil {
				fmt.Println(friendly(err))
				continue
			}
			fmt.Println("Specializations:", strings.Join(specs, ", "))
		case "patients":
			c.listPatients(ctx, args[1:])
		case "register-admin":
			c.registerAdmin(ctx)
		case "register-doctor":
			c.registerDoctor(ctx)
		case "register-patient":
			c.registerPatient(ctx)
		case "doctor-status":
			if len(args) < 3 {
				fmt.Println("Usage: doctor-status <id> <ACTIVE|INACTIVE>")
				continue
			}
			c.withID(args[1], func(id int64) error {
				return c.api.UpdateDoctorStatus(ctx, id, strings.ToUpper(args[2]))
			}, "Doctor status updated")
		case "delete-admin":
			if len(args) < 2 {
				fmt.Println("Usage: delete-admin <id>")
				continue
			}
			c.withID(args[1], func(id int64) error { return c.api.DeleteAdmin(ctx, id) }, "Admin deleted")
		case "delete-doctor":
			if len(args) < 2 {
				fmt.Println("Usage: delete-doctor <id>")
				continue
			}
			c.withID(args[1], func(id int64) error { return c.api.DeleteDoctor(ctx, id) }, "Doctor deleted")
		case "delete-patient":
			if len(args) < 2 {
				fmt.Println("Usage: delete-patient <id>")
				continue
			}
			c.withID(args[1], func(id int64) error { return c.api.DeletePatient(ctx, id) }, "Patient deleted")
		case "logout":
			c.ctrl.Logout()
			return route.AreaLogin, true
		case "exit":
			return c.area, false
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// withID parses the id argument and runs the call, printing a confirmation
// or a friendly error.
func (c *console) withID(arg string, call func(id int64) error, success string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Println("Invalid id:", arg)
		return
	}
	if err := call(id); err != nil {
		fmt.Println(friendly(err))
		return
	}
	fmt.Println(success)
}

func (c *console) overview(ctx context.Context) {
	admins, err := c.api.AdminCount(ctx)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	doctors, err := c.api.DoctorCount(ctx)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	patients, err := c.api.PatientCount(ctx)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	fmt.Printf("Admins: %d\nDoctors: %d\nPatients: %d\n", admins, doctors, patients)
}

// adminProfile shows the full admin record, preferring the cached snapshot
// and fetching (then caching) it on a miss.
func (c *console) adminProfile(ctx context.Context) {
	if profile, ok := c.store.CachedAdminProfile(); ok {
		printAdmin(profile)
		return
	}
	state := c.ctrl.State()
	if state.User == nil || state.User.Email == "" {
		fmt.Println("No profile email on record; log in with your email to fetch your profile.")
		return
	}
	profile, err := c.api.AdminByEmail(ctx, state.User.Email)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	c.store.CacheAdminProfile(profile)
	printAdmin(profile)
}

func printAdmin(a models.Admin) {
	fmt.Printf("ID: %d\nName: %s\nEmail: %s\nPhone: %s\nStatus: %s\nType: %s\n---\n",
		a.ID, a.Name, a.Email, a.Phone, a.Status, a.AdminType)
}

func (c *console) listAdmins(ctx context.Context, args []string) {
	admins, err := c.api.Admins(ctx)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	query, status := splitFilter(args)
	admins = api.FilterAdmins(admins, query, status)
	if len(admins) == 0 {
		fmt.Println("No admins match.")
		return
	}
	for _, a := range admins {
		printAdmin(a)
	}
}

func (c *console) listDoctors(ctx context.Context, args []string) {
	page := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			page = n
			args = args[1:]
		}
	}
	result, err := c.api.Doctors(ctx, page, 10)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	query, status := splitFilter(args)
	doctors := api.FilterDoctors(result.Doctors, query, status, "")
	if len(doctors) == 0 {
		fmt.Println("No doctors match.")
		return
	}
	for _, d := range doctors {
		fmt.Printf("ID: %d\nName: %s\nEmail: %s\nPhone: %s\nSpecialization: %s\nStatus: %s\n---\n",
			d.ID, d.Name, d.Email, d.Phone, d.Specialization, d.Status)
	}
	fmt.Printf("Page %d of %d (%d doctors total)\n", result.CurrentPage+1, result.TotalPages, result.TotalItems)
}

func (c *console) listPatients(ctx context.Context, args []string) {
	patients, err := c.api.Patients(ctx)
	if err != nil {
		fmt.Println(friendly(err))
		return
	}
	query, status := splitFilter(args)
	patients = api.FilterPatients(patients, query, status)
	if len(patients) == 0 {
		fmt.Println("No patients match.")
		return
	}
	for _, p := range patients {
		fmt.Printf("ID: %d\nName: %s\nEmail: %s\nPhone: %s\nStatus: %s\n---\n",
			p.ID, p.Name, p.Email, p.Phone, p.Status)
	}
}

func (c *console) registerAdmin(ctx context.Context) {
	var a models.Admin
	var ok bool
	if a.Name, ok = c.prompt("Name: "); !ok {
		return
	}
	if a.Email, ok = c.prompt("Email: "); !ok {
		return
	}
	if a.Phone, ok = c.prompt("Phone: "); !ok {
		return
	}
	if a.Password, ok = c.prompt("Password: "); !ok {
		return
	}
	if a.AdminType, ok = c.prompt("Admin type (blank for GENERAL): "); !ok {
		return
	}
	if err := c.api.RegisterAdmin(ctx, a); err != nil {
		fmt.Println(friendly(err))
		return
	}
	fmt.Println("Admin registered successfully.")
}

func (c *console) registerDoctor(ctx context.Context) {
	var d models.Doctor
	var ok bool
	if d.Name, ok = c.prompt("Name: "); !ok {
		return
	}
	if d.Email, ok = c.prompt("Email: "); !ok {
		return
	}
	if d.Phone, ok = c.prompt("Phone: "); !ok {
		return
	}
	if d.Password, ok = c.prompt("Password: "); !ok {
		return
	}
	if d.Specialization, ok = c.prompt("Specialization: "); !ok {
		return
	}
	if d.Gender, ok = c.prompt("Gender (blank to skip): "); !ok {
		return
	}
	if err := c.api.RegisterDoctor(ctx, d); err != nil {
		fmt.Println(friendly(err))
		return
	}
	fmt.Println("Doctor registered successfully.")
}

func (c *console) registerPatient(ctx context.Context) {
	var p models.Patient
	var ok bool
	if p.Name, ok = c.prompt("Name: "); !ok {
		return
	}
	if p.Email, ok = c.prompt("Email: "); !ok {
		return
	}
	if p.Phone, ok = c.prompt("Phone: "); !ok {
		return
	}
	if p.Password, ok = c.prompt("Password: "); !ok {
		return
	}
	if err := c.api.RegisterPatient(ctx, p); err != nil {
		fmt.Println(friendly(err))
		return
	}
	fmt.Println("Patient registered successfully.")
}

func (c *console) doctorDashboard() (route.Area, bool) {
	fmt.Println("Doctor dashboard. Available commands: help, profile, patients [query] [status], logout, exit")
	ctx := context.Background()

	for {
		if !c.ctrl.State().IsAuthenticated {
			return route.AreaLogin, true
		}

		line, ok := c.prompt("doctor> ")
		if !ok {
			return c.area, false
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, profile, patients [query] [status], logout, exit")
		case "profile":
			printProfile(c.ctrl.State().User)
		case "patients":
			c.listPatients(ctx, args[1:])
		case "logout":
			c.ctrl.Logout()
			return route.AreaLogin, true
		case "exit":
			return c.area, false
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (c *console) patientDashboard() (route.Area, bool) {
	fmt.Println("Patient dashboard. Available commands: help, profile, logout, exit")

	for {
		if !c.ctrl.State().IsAuthenticated {
			return route.AreaLogin, true
		}

		line, ok := c.prompt("patient> ")
		if !ok {
			return c.area, false
		}

		switch line {
		case "":
		case "help":
			fmt.Println("Available commands: help, profile, logout, exit")
		case "profile":
			printProfile(c.ctrl.State().User)
		case "logout":
			c.ctrl.Logout()
			return route.AreaLogin, true
		case "exit":
			return c.area, false
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printProfile(user *models.UserProfile) {
	if user == nil {
		fmt.Println("No profile available.")
		return
	}
	fmt.Printf("ID: %s\nName: %s\nRole: %s\nEmail: %s\nPhone: %s\nStatus: %s\n",
		user.ID, user.Name, user.Role, user.Email, user.Phone, user.Status)
	if user.Department != "" {
		fmt.Printf("Department: %s\n", user.Department)
	}
	if user.AdminType != "" {
		fmt.Printf("Admin type: %s\n", user.AdminType)
	}
}
