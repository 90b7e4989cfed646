package plan

// Default returns the built-in daily diet plan.
func Default() *Plan {
	p, err := New(defaultEntries...)
	if err != nil {
		panic("plan: invalid default plan: " + err.Error())
	}
	return p
}

var defaultEntries = []Entry{
	{MustTimeOfDay("08:30"), "Morning dry fruits and seeds", "It is 8:30 AM. Please take soaked almonds, walnuts, cranberry, seeds, and figs."},
	{MustTimeOfDay("09:30"), "Breakfast", "It is 9:30 AM. Please have breakfast now."},
	{MustTimeOfDay("10:30"), "Coconut water", "It is 10:30 AM. Please drink coconut water now."},
	{MustTimeOfDay("11:30"), "Folic acid and iron", "It is 11:30 AM. Please take folic acid medicine and iron medicine now."},
	{MustTimeOfDay("13:30"), "Lunch, salad, and iron", "It is 1:30 PM. Please have lunch and salad, and also take iron medicine."},
	{MustTimeOfDay("15:00"), "Afternoon fruits", "It is 3:00 PM. Please eat orange, anaar, and apple."},
	{MustTimeOfDay("17:00"), "Snack and tea", "It is 5:00 PM. Please have snack and tea now."},
	{MustTimeOfDay("20:15"), "Magnesium before dinner", "It is before dinner time. Please take magnesium medicine now."},
	{MustTimeOfDay("20:30"), "Dinner with eggs and salad", "It is 8:30 PM. Please have dinner, 2 eggs, and salad."},
	{MustTimeOfDay("22:00"), "Milk", "It is 10:00 PM. Please drink milk now."},
	{MustTimeOfDay("22:30"), "Ecosprin before sleep", "It is bedtime. Please take ecosprin medicine before sleep."},
}
