package checks

// BuiltinDefinitions is the check catalog compiled into the scanner: the
// Windows 11 rules implemented so far, keyed by STIG id. Benchmarks evolve
// faster than this list; rules without a definition come back as
// not_implemented, which the report surfaces as a coverage gap.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{
			RuleID:        "WN11-SO-000030",
			Name:          "Local accounts with blank passwords restricted to console logon",
			Type:          "registry",
			RegistryPath:  `HKLM\SYSTEM\CurrentControlSet\Control\Lsa`,
			RegistryValue: "LimitBlankPasswordUse",
			Operator:      "equals",
			Expected:      "1",
		},
		{
			RuleID:        "WN11-SO-000270",
			Name:          "User Account Control must run all administrators in Admin Approval Mode",
			Type:          "registry",
			RegistryPath:  `HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\System`,
			RegistryValue: "EnableLUA",
			Operator:      "equals",
			Expected:      "1",
		},
		{
			RuleID:        "WN11-CC-000190",
			Name:          "Autoplay must be disabled for all drives",
			Type:          "registry",
			RegistryPath:  `HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\Explorer`,
			RegistryValue: "NoDriveTypeAutoRun",
			Operator:      "equals",
			Expected:      "255",
		},
		{
			RuleID:        "WN11-CC-000210",
			Name:          "Microsoft Defender SmartScreen must be enabled",
			Type:          "registry",
			RegistryPath:  `HKLM\SOFTWARE\Policies\Microsoft\Windows\System`,
			RegistryValue: "EnableSmartScreen",
			Operator:      "equals",
			Expected:      "1",
		},
		{
			RuleID:        "WN11-00-000160",
			Name:          "SMBv1 server must be disabled",
			Type:          "registry",
			RegistryPath:  `HKLM\SYSTEM\CurrentControlSet\Services\LanmanServer\Parameters`,
			RegistryValue: "SMB1",
			Operator:      "equals",
			Expected:      "0",
		},
		{
			RuleID:   "WN11-00-000110",
			Name:     "Simple TCP/IP Services must not be installed",
			Type:     "service",
			Service:  "simptcp",
			Operator: "not_exists",
		},
		{
			RuleID:   "WN11-SV-000100",
			Name:     "Windows Event Log service must be running",
			Type:     "service",
			Service:  "EventLog",
			Field:    "state",
			Operator: "equals",
			Expected: "running",
		},
		{
			RuleID:   "WN11-SV-000110",
			Name:     "Remote Registry service must be disabled",
			Type:     "service",
			Service:  "RemoteRegistry",
			Field:    "start_mode",
			Operator: "equals",
			Expected: "disabled",
		},
	}
}
