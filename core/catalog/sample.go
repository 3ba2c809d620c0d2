package catalog

import "github.com/kilianp07/courseadvisor/core/model"

// SampleCourses is the five-course demonstration catalog.
func SampleCourses() []model.Course {
	return []model.Course{
		{
			ID: "CS101", Name: "Introduction to Computer Science", Subject: "Computer Science",
			Credits: 3, Professor: "Dr. Smith", TimeSlot: model.At(9, 0),
			Days: []string{"Monday", "Wednesday"}, Campus: "Main Campus",
			Building: "Science Hall", Room: "101", Capacity: 30, Enrolled: 15,
		},
		{
			ID: "MATH201", Name: "Calculus II", Subject: "Mathematics",
			Credits: 4, Professor: "Dr. Johnson", TimeSlot: model.At(11, 0),
			Days: []string{"Tuesday", "Thursday"}, Campus: "Main Campus",
			Building: "Math Building", Room: "205", Capacity: 25, Enrolled: 20,
		},
		{
			ID: "ENG101", Name: "English Composition", Subject: "English",
			Credits: 3, Professor: "Dr. Williams", TimeSlot: model.At(14, 0),
			Days: []string{"Monday", "Wednesday", "Friday"}, Campus: "Main Campus",
			Building: "Humanities Hall", Room: "301", Capacity: 35, Enrolled: 25,
		},
		{
			ID: "PHYS101", Name: "Physics I", Subject: "Physics",
			Credits: 4, Professor: "Dr. Brown", TimeSlot: model.At(10, 0),
			Days: []string{"Tuesday", "Thursday"}, Campus: "Science Campus",
			Building: "Physics Building", Room: "102", Capacity: 30, Enrolled: 18,
		},
		{
			ID: "HIST101", Name: "World History", Subject: "History",
			Credits: 3, Professor: "Dr. Davis", TimeSlot: model.At(13, 0),
			Days: []string{"Monday", "Wednesday"}, Campus: "Main Campus",
			Building: "History Building", Room: "201", Capacity: 40, Enrolled: 30,
		},
	}
}

// Sample returns SampleCourses as a Catalog.
func Sample() *Catalog {
	cat, err := New(SampleCourses()...)
	if err != nil {
		panic(err)
	}
	return cat
}
