package config

// DefaultSimulation returns the stock simulation parameters.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		Track: TrackConfig{
			Length:        400,
			SegmentLength: 50,
			TimeStep:      0.5,
			MaxTicks:      10000,
			FieldSize:     5,
		},
		Terrain: TerrainConfig{
			Neutral:        "grass",
			PatchTypes:     []string{"mud", "sand", "incline", "gravel"},
			Patches:        3,
			PatchMinLength: 1,
			PatchMaxLength: 3,
			Modifiers: map[string]TerrainModifier{
				"grass":   {Speed: 1.0, StaminaDrain: 1.0, InjuryChance: 0.002},
				"mud":     {Speed: 0.8, StaminaDrain: 1.5, InjuryChance: 0.005},
				"sand":    {Speed: 0.9, StaminaDrain: 1.3, InjuryChance: 0.004},
				"gravel":  {Speed: 0.95, StaminaDrain: 1.1, InjuryChance: 0.003},
				"incline": {Speed: 0.92, StaminaDrain: 1.7, InjuryChance: 0.006},
			},
		},
		Aging: AgingConfig{
			PeakAge:         4,
			YouthFloor:      0.6,
			DeclinePerYear:  0.10,
			DeclineCapYears: 5,
			MinMultiplier:   0.4,
			MaxMultiplier:   1.0,
		},
		Form: FormConfig{
			Depth:          5,
			Weights:        []float64{0.35, 0.25, 0.20, 0.12, 0.08},
			Impact:         0.20,
			PositionScores: []float64{1.0, 0.7, 0.5, 0.35},
			DefaultScore:   0.2,
		},
		Stamina: StaminaConfig{
			DrainBase:          1.0,
			RecoveryRate:       0.5,
			BoostMultiplier:    1.2,
			DepletedMultiplier: 0.6,
			EffortScaling:      false,
			EffortMin:          0.5,
			EffortMax:          1.5,
			Floor:              0.01,
		},
		Injury: InjuryConfig{
			SeverityMin:             1,
			SeverityMax:             3,
			DurationMin:             2,
			DurationMax:             5,
			SeverityPenalty:         0.10,
			MinMultiplier:           0.1,
			LowStaminaThreshold:     0.25,
			StaminaRiskMax:          2.0,
			AgeRiskPerYearOverPeak:  0.12,
			AgeRiskPerYearUnderPeak: 0.06,
			SpeedPenalty:            0.5,
			RaceTypeMultipliers: map[string]float64{
				"standard":     1.0,
				"championship": 1.15,
			},
			InjuryType: "Strain",
		},
		Retirement: RetirementConfig{
			RacesPerYear:        5,
			MinRetireAge:        8,
			ForcedRetireAge:     10,
			RetireChancePerYear: 0.25,
		},
		Rookie: RookieConfig{
			StartingAge:     2,
			SpeedMin:        6.5,
			SpeedMax:        8.5,
			StaminaMin:      6.0,
			StaminaMax:      8.5,
			AccelerationMin: 6.0,
			AccelerationMax: 8.5,
		},
		Betting: BettingConfig{
			HouseEdge:      0.10,
			PlaceCap:       0.97,
			PlaceMinOdds:   1.10,
			SentinelOdds:   999.0,
			Markets:        []string{"WIN", "PLACE", "EXACTA"},
			OddsCacheTTL:   600,
			StartingWallet: 1000,
		},
		Championship: ChampionshipConfig{
			FieldSize:       4,
			Rounds:          3,
			Points:          []int{5, 3, 1, 0},
			StaminaRecovery: 0.35,
			OrganiserPrize:  500,
		},
	}
}

// Default returns a complete development configuration backed by SQLite.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "paddock",
			Environment: "development",
			LogLevel:    "info",
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "paddock.db",
		},
		Simulation: DefaultSimulation(),
		Scheduler: SchedulerConfig{
			Schedule: "*/15 * * * *",
			RaceType: "Standard",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
