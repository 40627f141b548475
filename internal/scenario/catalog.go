package scenario

// CloseSchools lowers the daily reproduction rate by 0.03 every turn schools stay closed.
var CloseSchools = ContainmentPolicy{
	ID:   "schools",
	Name: "Schools",
	Recurring: Effects{
		{Op: OpAdd, Target: TargetR, Amount: -0.03},
	},
}

// CloseTransit lowers the daily reproduction rate by 0.04 every turn transit stays closed.
var CloseTransit = ContainmentPolicy{
	ID:   "transit",
	Name: "Close transit",
	Recurring: Effects{
		{Op: OpAdd, Target: TargetR, Amount: -0.04},
	},
}

// FieldHospitals is a one-off 50% boost to hospital capacity.
var FieldHospitals = CapabilityImprovement{
	ID:   "field_hospitals",
	Name: "Field hospitals",
	Immediate: Effects{
		{Op: OpScale, Target: TargetHospitalCapacity, Amount: 1.5},
	},
}

// BorderScreening halves imported cases while it is funded.
var BorderScreening = CapabilityImprovement{
	ID:   "border_screening",
	Name: "Border screening",
	Recurring: Effects{
		{Op: OpScale, Target: TargetImportedCases, Amount: 0.5},
	},
}

// Default is a small town with a fast-spreading disease, playable for a year.
func Default() Scenario {
	return Scenario{
		Name:                "Small town",
		TotalPopulation:     1000,
		InitialNumInfected:  100,
		R0:                  1.04,
		Mortality:           0.01,
		HospitalCapacity:    100,
		ImportedCasesPerDay: 0.5,
		GDPPerDay:           2e13 / 365 * 1000 / 330e6, // US GDP share for a town of 1000
		DaysPerTurn:         DefaultDaysPerTurn,
		ContainmentPolicies: []ContainmentPolicy{CloseSchools, CloseTransit},
		CapabilityImprovements: []CapabilityImprovement{
			FieldHospitals, BorderScreening,
		},
		RandomEvents: []RandomEvent{
			{
				Name:                "Music festival",
				Probability:         0.1,
				MinDaysBeforeAppear: 30,
				HappensOnce:         true,
				Effect:              Effects{{Op: OpAdd, Target: TargetImportedCases, Amount: 5}},
			},
			{
				Name:                "Holiday travel",
				Probability:         0.05,
				MinDaysBeforeAppear: 60,
				Effect:              Effects{{Op: OpScale, Target: TargetImportedCases, Amount: 3}},
			},
		},
		VictoryConditions: []VictoryCondition{
			{Name: "Eradication", Kind: VictoryInfectedAtMost, Threshold: 0},
			{Name: "One year survived", Kind: VictoryDaysElapsed, Threshold: 360},
		},
	}.WithDefaults().Clone()
}
