package directory

import "github.com/pbaille/localconnect/internal/domain"

var seedEntries = []domain.Entry{
	{ID: "1", Name: "Dr. Rajesh Kumar", Profession: "Doctor", ContactNumber: "+91 98765 43210", FlatNumber: "A-101", Availability: domain.Available, Rating: 4.8, Specialization: "General Medicine", IsOnline: true},
	{ID: "2", Name: "Adv. Sunita Verma", Profession: "Lawyer", ContactNumber: "+91 43210 98765", FlatNumber: "C-201", Availability: domain.Busy, Rating: 4.9, Specialization: "Family Law", IsOnline: false},
	{ID: "3", Name: "Chef Rahul Mehta", Profession: "Chef", ContactNumber: "+91 09876 54321", FlatNumber: "A-403", Availability: domain.Available, Rating: 4.7, Specialization: "Indian Cuisine", IsOnline: true},
	{ID: "4", Name: "Kiran Joshi", Profession: "Crafts", ContactNumber: "+91 10987 65432", FlatNumber: "C-102", Availability: domain.Available, Rating: 4.5, Specialization: "Handmade Items", IsOnline: true},
	{ID: "5", Name: "Mrs. Neha Singh", Profession: "Teacher", ContactNumber: "+91 65432 10987", FlatNumber: "A-202", Availability: domain.Available, Rating: 4.6, Specialization: "Mathematics", IsOnline: false},
	{ID: "6", Name: "Priya Sharma", Profession: "Designer", ContactNumber: "+91 87654 32109", FlatNumber: "B-205", Availability: domain.Available, Rating: 4.8, Specialization: "Interior Design", IsOnline: true},
	{ID: "7", Name: "Amit Patel", Profession: "Tailor", ContactNumber: "+91 76543 21098", FlatNumber: "C-304", Availability: domain.Busy, Rating: 4.4, Specialization: "Custom Tailoring", IsOnline: false},
	{ID: "8", Name: "Dr. Ananya Reddy", Profession: "Doctor", ContactNumber: "+91 21098 76543", FlatNumber: "B-404", Availability: domain.Available, Rating: 4.9, Specialization: "Pediatrics", IsOnline: true},
	{ID: "9", Name: "Adv. Deepak Gupta", Profession: "Lawyer", ContactNumber: "+91 32109 87654", FlatNumber: "A-305", Availability: domain.Available, Rating: 4.7, Specialization: "Corporate Law", IsOnline: true},
	{ID: "10", Name: "Maya Crafts", Profession: "Crafts", ContactNumber: "+91 54321 09876", FlatNumber: "B-103", Availability: domain.Available, Rating: 4.3, Specialization: "Pottery", IsOnline: false},
	{ID: "11", Name: "Chef Vikram Singh", Profession: "Chef", ContactNumber: "+91 98765 12345", FlatNumber: "A-501", Availability: domain.Available, Rating: 4.6, Specialization: "Continental", IsOnline: true},
	{ID: "12", Name: "Prof. Kavita Jain", Profession: "Teacher", ContactNumber: "+91 87654 23456", FlatNumber: "B-302", Availability: domain.Busy, Rating: 4.8, Specialization: "Physics", IsOnline: false},
	{ID: "13", Name: "Ravi Designer", Profession: "Designer", ContactNumber: "+91 76543 34567", FlatNumber: "C-405", Availability: domain.Available, Rating: 4.5, Specialization: "Graphic Design", IsOnline: true},
	{ID: "14", Name: "Master Tailor Ram", Profession: "Tailor", ContactNumber: "+91 65432 45678", FlatNumber: "A-203", Availability: domain.Available, Rating: 4.7, Specialization: "Traditional Wear", IsOnline: true},
}

var seedCategories = []domain.Category{
	{ID: "doctor", DisplayName: "Doctor", Description: "Medical professionals", ColorTag: "#EF4444", IconRef: "hospital"},
	{ID: "lawyer", DisplayName: "Lawyer", Description: "Legal experts", ColorTag: "#3B82F6", IconRef: "scales"},
	{ID: "chef", DisplayName: "Chef", Description: "Food services", ColorTag: "#F59E0B", IconRef: "cook"},
	{ID: "crafts", DisplayName: "Crafts", Description: "Repair & handmade", ColorTag: "#10B981", IconRef: "hammer"},
	{ID: "teacher", DisplayName: "Teacher", Description: "Educational services", ColorTag: "#8B5CF6", IconRef: "books"},
	{ID: "designer", DisplayName: "Designer", Description: "Design services", ColorTag: "#EC4899", IconRef: "palette"},
	{ID: "tailor", DisplayName: "Tailor", Description: "Clothing services", ColorTag: "#6366F1", IconRef: "scissors"},
}

// SeedEntries returns a copy of the compiled-in sample directory
func SeedEntries() []domain.Entry {
	return append([]domain.Entry(nil), seedEntries...)
}

// SeedCategories returns a copy of the compiled-in category table
func SeedCategories() []domain.Category {
	return append([]domain.Category(nil), seedCategories...)
}
