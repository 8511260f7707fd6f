package maternity

import (
	ff "github.com/ehr/formfill/internal/formfill"
)

// Widget names are the literal names authored into the PDF templates,
// including their misspellings (utc_edc, firt_visit_bp).

// Row capacities of the repeating sections printed on each template.
const (
	PatientOBHistoryRows  = 5
	PatientAssessmentRows = 1
	PatientTetanusDoses   = 5
	PatientPostpartumRows = 2
	LaborHistoryRows      = 5
	LaborMonitorRows      = 4
	BirthPlanDonorRows    = 4
)

// PatientRecordTable maps PatientRecord onto template.pdf.
var PatientRecordTable = ff.Table[PatientRecord]{
	Name: DocPatientRecord,
	Rules: concat(
		[]ff.Rule[PatientRecord]{
			ff.Date("date_registration", func(p PatientRecord) *string { return p.Identity.DateOfRegistration }),
			ff.Text("family_serial_no", func(p PatientRecord) *string { return p.Identity.FamilySerialNumber }),
			ff.Text("last_name", func(p PatientRecord) *string { return p.Identity.LastName }),
			ff.Text("given_name", func(p PatientRecord) *string { return p.Identity.GivenName }),
			ff.Text("middle_name", func(p PatientRecord) *string { return p.Identity.MiddleName }),
			ff.Text("complete_address", func(p PatientRecord) *string { return p.Identity.CompleteAddress }),
			ff.Integer("age", func(p PatientRecord) *int { return p.Identity.Age }),
			ff.Text("civil_status", func(p PatientRecord) *string { return p.Identity.CivilStatus }),
			ff.Date("birthday", func(p PatientRecord) *string { return p.Identity.Birthday }),
			ff.Text("birth_place", func(p PatientRecord) *string { return p.Identity.BirthPlace }),
			ff.Text("religion", func(p PatientRecord) *string { return p.Identity.Religion }),
			ff.Text("occupation", func(p PatientRecord) *string { return p.Identity.Occupation }),
			ff.Text("contact_number", func(p PatientRecord) *string { return p.Identity.ContactNumber }),
			ff.Text("philhealth_no_phc", func(p PatientRecord) *string { return p.PhilHealth.Number }),
			ff.Mark("philhealth_yes", func(p PatientRecord) *bool { return p.PhilHealth.Member }),
			ff.Mark("philhealth_no", func(p PatientRecord) *bool { return not(p.PhilHealth.Member) }),

			ff.Text("blood_type", func(p PatientRecord) *string { return p.Pregnancy.BloodType }),
			ff.Text("menarche", func(p PatientRecord) *string { return p.Pregnancy.Menarche }),
			ff.Text("hepb_test_plus_minus", func(p PatientRecord) *string { return p.Pregnancy.HepBTest }),
			ff.Date("lmp_date", func(p PatientRecord) *string { return p.Pregnancy.LMP }),
			ff.Date("edd_date", func(p PatientRecord) *string { return p.Pregnancy.EDC }),
			ff.Integer("gravida", func(p PatientRecord) *int { return p.Pregnancy.Gravida }),
			ff.Integer("para", func(p PatientRecord) *int { return p.Pregnancy.Para }),
			ff.Integer("full_term", func(p PatientRecord) *int { return p.Pregnancy.FullTerm }),
			ff.Integer("preterm", func(p PatientRecord) *int { return p.Pregnancy.Preterm }),
			ff.Integer("abortion", func(p PatientRecord) *int { return p.Pregnancy.Abortions }),
			ff.Integer("living", func(p PatientRecord) *int { return p.Pregnancy.Living }),
		},
		riskCode("a", func(p PatientRecord) RiskCode { return p.Risks.A }),
		riskCode("b", func(p PatientRecord) RiskCode { return p.Risks.B }),
		riskCode("c", func(p PatientRecord) RiskCode { return p.Risks.C }),
		riskCode("d", func(p PatientRecord) RiskCode { return p.Risks.D }),
		riskCode("e", func(p PatientRecord) RiskCode { return p.Risks.E }),
		[]ff.Rule[PatientRecord]{
			ff.Date("utz_date", func(p PatientRecord) *string { return p.Labs.Ultrasound.Date }),
			ff.Text("utz_aog", func(p PatientRecord) *string { return p.Labs.Ultrasound.AOG }),
			ff.Date("utc_edc", func(p PatientRecord) *string { return p.Labs.Ultrasound.EDC }),
			ff.Text("utz_presentation", func(p PatientRecord) *string { return p.Labs.Ultrasound.Presentation }),
			ff.Text("utz_remarks", func(p PatientRecord) *string { return p.Labs.Ultrasound.Remarks }),
			ff.Text("urinalysis", func(p PatientRecord) *string { return p.Labs.Urinalysis }),
			ff.Text("cbc_result", func(p PatientRecord) *string { return p.Labs.CBC }),

			ff.Repeat("tetanus_toxoid", PatientTetanusDoses,
				func(p PatientRecord) []TetanusDose { return p.TetanusToxoid },
				ff.Mark("tt{i}_done", func(d TetanusDose) *bool { return d.Done }),
			),

			ff.Date("first_visit_date", firstVisit(func(v *PrenatalVisit) *string { return v.Date })),
			ff.Text("first_visit_aog", firstVisit(func(v *PrenatalVisit) *string { return v.AOG })),
			ff.Text("first_visit_trimester", firstVisit(func(v *PrenatalVisit) *string { return v.Trimester })),
			ff.Text("firt_visit_bp", firstVisit(func(v *PrenatalVisit) *string { return v.BP })),
			ff.Text("first_visit_temp", firstVisit(func(v *PrenatalVisit) *string { return v.Temperature })),
			ff.Text("first_visit_pr", firstVisit(func(v *PrenatalVisit) *string { return v.PulseRate })),
			ff.Text("first_visit_rr", firstVisit(func(v *PrenatalVisit) *string { return v.RespiratoryRate })),
			ff.Text("first_visit_weight", firstVisit(func(v *PrenatalVisit) *string { return v.Weight })),
			ff.Text("first_visit_fh", firstVisit(func(v *PrenatalVisit) *string { return v.FundicHeight })),
			ff.Text("first_visit_fht", firstVisit(func(v *PrenatalVisit) *string { return v.FetalHeartTone })),
			ff.Text("first_visit_vit", firstVisit(func(v *PrenatalVisit) *string { return v.VitaminsTaken })),
			ff.Text("first_visit_remarks", firstVisit(func(v *PrenatalVisit) *string { return v.Remarks })),

			ff.Repeat("prenatal_assessments", PatientAssessmentRows,
				PatientRecord.laterAssessments,
				ff.Date("assess_r{i}_date", func(a Assessment) *string { return a.Date }),
				ff.Text("assess_r{i}_text", func(a Assessment) *string { return a.Assessment }),
				ff.Text("assess_r{i}_rem", func(a Assessment) *string { return a.Remarks }),
			),

			ff.Repeat("ob_history", PatientOBHistoryRows,
				func(p PatientRecord) []OBHistoryEntry { return p.OBHistory },
				ff.Text("ob_r{i}_gravida", func(e OBHistoryEntry) *string { return e.GravidaYear }),
				ff.Text("ob_r{i}_facility", func(e OBHistoryEntry) *string { return e.FacilityConfined }),
				ff.Text("ob_r{i}_aog", func(e OBHistoryEntry) *string { return e.AOG }),
				ff.Text("ob_r{i}_manner", func(e OBHistoryEntry) *string { return e.MannerOfDelivery }),
				ff.Text("ob_r{i}_pres", func(e OBHistoryEntry) *string { return e.Presentation }),
				ff.Text("ob_r{i}_sex", func(e OBHistoryEntry) *string { return e.Gender }),
				ff.Text("ob_r{i}_comp", func(e OBHistoryEntry) *string { return e.Complications }),
			),

			ff.Date("delivery_date", func(p PatientRecord) *string { return p.Delivery.DateTime }),
			ff.Text("baby_sex", func(p PatientRecord) *string { return p.Delivery.BabySex }),
			ff.Integer("baby_weight", func(p PatientRecord) *int { return p.Delivery.BirthWeightGrams }),
			ff.Text("baby_cc", func(p PatientRecord) *string { return p.Delivery.ChestCircumference }),
			ff.Text("baby_ac", func(p PatientRecord) *string { return p.Delivery.AbdominalCircumference }),
			ff.Mark("vit_k_given", func(p PatientRecord) *bool { return p.Delivery.VitaminKGiven }),
			ff.Mark("hepb_given", func(p PatientRecord) *bool { return p.Delivery.HepBGiven }),
			ff.Mark("credes_given", func(p PatientRecord) *bool { return p.Delivery.CredesGiven }),

			ff.Repeat("postpartum", PatientPostpartumRows,
				func(p PatientRecord) []PostpartumVisit { return p.Postpartum },
				ff.Date("pp{i}_date", func(v PostpartumVisit) *string { return v.Date }),
				ff.Text("pp{i}_supp", func(v PostpartumVisit) *string { return v.Supplementation }),
				ff.Text("pp{i}_remarks", func(v PostpartumVisit) *string { return v.Remarks }),
				ff.Text("pp{i}_bf_reason", func(v PostpartumVisit) *string { return v.NoBreastFeedingReason }),
				ff.Mark("pp{i}_bf_yes", func(v PostpartumVisit) *bool { return v.BreastFeeding }),
				ff.Mark("pp{i}_bf_no", func(v PostpartumVisit) *bool { return not(v.BreastFeeding) }),
			),
		},
	),
}

func riskCode(letter string, get func(PatientRecord) RiskCode) []ff.Rule[PatientRecord] {
	return []ff.Rule[PatientRecord]{
		ff.Mark("risk_code_"+letter, func(p PatientRecord) *bool { return get(p).Present }),
		ff.Date("risk_code_"+letter+"_date", func(p PatientRecord) *string { return get(p).Date }),
	}
}

func firstVisit(get func(*PrenatalVisit) *string) func(PatientRecord) *string {
	return func(p PatientRecord) *string {
		v := p.firstVisit()
		if v == nil {
			return nil
		}
		return get(v)
	}
}

// LaborRecordTable maps LaborRecord onto template1.pdf.
var LaborRecordTable = ff.Table[LaborRecord]{
	Name: DocLaborRecord,
	Rules: concat(
		[]ff.Rule[LaborRecord]{
			ff.Date("admit_date", func(l LaborRecord) *string { return l.Admission.Date }),
			ff.Text("admit_time", func(l LaborRecord) *string { return l.Admission.Time }),
			ff.Text("patient_name", func(l LaborRecord) *string { return l.Admission.PatientName }),
			ff.Text("patient_address", func(l LaborRecord) *string { return l.Admission.PatientAddress }),
			ff.Text("husband_name", func(l LaborRecord) *string { return l.Admission.HusbandName }),
			ff.Date("lmp_date", func(l LaborRecord) *string { return l.History.LMP }),
			ff.Text("case_number", func(l LaborRecord) *string { return l.Admission.CaseNumber }),
			ff.Text("discharge_time", func(l LaborRecord) *string { return l.Admission.DischargeTime }),
			ff.Mark("philhealth_yes", func(l LaborRecord) *bool { return l.History.PhilHealth }),
			ff.Mark("philhealth_no", func(l LaborRecord) *bool { return l.History.NonPhilHealth }),
			ff.Text("aog_weeks", func(l LaborRecord) *string { return l.History.AOGWeeks }),
			ff.Text("gravida", func(l LaborRecord) *string { return l.History.Gravida }),
			ff.Text("para", func(l LaborRecord) *string { return l.History.Para }),
			ff.Text("abortion", func(l LaborRecord) *string { return l.History.Abortion }),
			ff.Text("death", func(l LaborRecord) *string { return l.History.Deaths }),

			ff.Repeat("ob_history", LaborHistoryRows,
				func(l LaborRecord) []LaborHistoryEntry { return l.OBHistory },
				ff.Text("hist_r{i}_year", func(e LaborHistoryEntry) *string { return e.Year }),
				ff.Text("hist_r{i}_place", func(e LaborHistoryEntry) *string { return e.Place }),
				ff.Text("hist_r{i}_aog", func(e LaborHistoryEntry) *string { return e.AOG }),
				ff.Text("hist_r{i}_wt", func(e LaborHistoryEntry) *string { return e.Weight }),
				ff.Text("hist_r{i}_manner", func(e LaborHistoryEntry) *string { return e.Manner }),
				ff.Text("hist_r{i}_rem", func(e LaborHistoryEntry) *string { return e.Remarks }),
			),
		},
		labPanel("utz", func(l LaborRecord) LabPanel { return l.Labs.Ultrasound }),
		labPanel("cbc", func(l LaborRecord) LabPanel { return l.Labs.CBC }),
		labPanel("uri", func(l LaborRecord) LabPanel { return l.Labs.Urinalysis }),
		labPanel("hepb", func(l LaborRecord) LabPanel { return l.Labs.HepatitisB }),
		[]ff.Rule[LaborRecord]{
			ff.Text("phy_bp", func(l LaborRecord) *string { return l.Physical.BP }),
			ff.Text("phy_pr", func(l LaborRecord) *string { return l.Physical.PR }),
			ff.Text("phy_rr", func(l LaborRecord) *string { return l.Physical.RR }),
			ff.Text("phy_temp", func(l LaborRecord) *string { return l.Physical.Temp }),
			ff.Text("phy_weight", func(l LaborRecord) *string { return l.Physical.Weight }),
			ff.Text("phy_ht", func(l LaborRecord) *string { return l.Physical.Height }),
			ff.Text("phy_fr", func(l LaborRecord) *string { return l.Physical.FundalHeight }),
			ff.Text("phy_fht", func(l LaborRecord) *string { return l.Physical.FHT }),
			ff.Text("phy_uc", func(l LaborRecord) *string { return l.Physical.UC }),
			ff.Text("ie_dilatation", func(l LaborRecord) *string { return l.Physical.IEDilatation }),
			ff.Mark("phy_heent_norm", func(l LaborRecord) *bool { return l.Physical.HEENTNormal }),
			ff.Mark("phy_chest_norm", func(l LaborRecord) *bool { return l.Physical.ChestNormal }),
			ff.Mark("phy_ext_norm", func(l LaborRecord) *bool { return l.Physical.ExtremitiesNormal }),
			ff.Mark("bow_intact", func(l LaborRecord) *bool { return l.Physical.BOWIntact }),
			ff.Mark("bow_ruptured", func(l LaborRecord) *bool { return l.Physical.BOWRuptured }),
		},
		laborStage("onset", func(l LaborRecord) LaborStage { return l.Stages.Onset }),
		laborStage("cervix", func(l LaborRecord) LaborStage { return l.Stages.Cervix }),
		laborStage("baby", func(l LaborRecord) LaborStage { return l.Stages.Baby }),
		laborStage("placenta", func(l LaborRecord) LaborStage { return l.Stages.Placenta }),
		[]ff.Rule[LaborRecord]{
			ff.Text("del_patient_name", func(l LaborRecord) *string { return l.Delivery.PatientName }),
			ff.Text("del_case_number", func(l LaborRecord) *string { return l.Delivery.CaseNumber }),
			ff.Text("del_ph_id", func(l LaborRecord) *string { return l.Delivery.PhilHealthID }),
			ff.Mark("epis_median", func(l LaborRecord) *bool { return l.Delivery.EpisiotomyMedian }),
			ff.Mark("cond_awake", func(l LaborRecord) *bool { return l.Delivery.Awake }),
			ff.Mark("ut_contracted", func(l LaborRecord) *bool { return l.Delivery.UterusContracted }),

			ff.Repeat("vitals_monitor", LaborMonitorRows,
				func(l LaborRecord) []MonitorReading { return l.VitalsMonitor },
				ff.Text("mon_r{i}_hour", func(m MonitorReading) *string { return m.Hour }),
				ff.Text("mon_r{i}_bp", func(m MonitorReading) *string { return m.BP }),
				ff.Text("mon_r{i}_pr", func(m MonitorReading) *string { return m.PR }),
				ff.Text("mon_r{i}_rr", func(m MonitorReading) *string { return m.RR }),
				ff.Text("mon_r{i}_temp", func(m MonitorReading) *string { return m.Temp }),
				ff.Text("mon_r{i}_fht", func(m MonitorReading) *string { return m.FHT }),
			),

			ff.Text("midwife_name", func(l LaborRecord) *string { return l.Staff.MidwifeName }),
			ff.Text("nurse_name", func(l LaborRecord) *string { return l.Staff.NurseName }),
			ff.Text("mon_staff_name", func(l LaborRecord) *string { return l.Staff.MonitorStaffName }),
		},
	),
}

func labPanel(test string, get func(LaborRecord) LabPanel) []ff.Rule[LaborRecord] {
	p := "lab_" + test + "_"
	return []ff.Rule[LaborRecord]{
		ff.Text(p+"norm", func(l LaborRecord) *string { return get(l).Normal }),
		ff.Text(p+"norm1", func(l LaborRecord) *string { return get(l).Normal1 }),
		ff.Text(p+"abn", func(l LaborRecord) *string { return get(l).Abnormal }),
		ff.Text(p+"abn1", func(l LaborRecord) *string { return get(l).Abnormal1 }),
		ff.Text(p+"abn2", func(l LaborRecord) *string { return get(l).Abnormal2 }),
	}
}

func laborStage(stage string, get func(LaborRecord) LaborStage) []ff.Rule[LaborRecord] {
	p := "labor_" + stage + "_"
	return []ff.Rule[LaborRecord]{
		ff.Text(p+"time", func(l LaborRecord) *string { return get(l).Time }),
		ff.Text(p+"stage", func(l LaborRecord) *string { return get(l).Stage }),
		ff.Text(p+"dur", func(l LaborRecord) *string { return get(l).Duration }),
	}
}

// NewbornRecordTable maps NewbornRecord onto template3.pdf.
var NewbornRecordTable = ff.Table[NewbornRecord]{
	Name: DocNewbornRecord,
	Rules: concat(
		[]ff.Rule[NewbornRecord]{
			ff.Text("baby_case_number", func(n NewbornRecord) *string { return n.CaseNumber }),
			ff.Text("baby_name", func(n NewbornRecord) *string { return n.Name }),
			ff.Text("baby_sex", func(n NewbornRecord) *string { return n.Sex }),
			ff.Date("baby_dob", func(n NewbornRecord) *string { return n.DateOfBirth }),
			ff.Text("baby_weight", func(n NewbornRecord) *string { return n.Weight }),
			ff.Text("baby_hc", func(n NewbornRecord) *string { return n.HeadCircumference }),
			ff.Text("baby_cc", func(n NewbornRecord) *string { return n.ChestCircumference }),
			ff.Text("baby_apgar", func(n NewbornRecord) *string { return n.Apgar }),
			ff.Text("baby_length", func(n NewbornRecord) *string { return n.Length }),
		},
		parent("mother", "m", func(n NewbornRecord) ParentInfo { return n.Mother }),
		parent("father", "f", func(n NewbornRecord) ParentInfo { return n.Father }),
		[]ff.Rule[NewbornRecord]{
			ff.Text("baby_address", func(n NewbornRecord) *string { return n.Address }),
			ff.Text("midwife_name", func(n NewbornRecord) *string { return n.MidwifeName }),
			ff.Text("nurse_name", func(n NewbornRecord) *string { return n.NurseName }),
		},
	),
}

func parent(role, initial string, get func(NewbornRecord) ParentInfo) []ff.Rule[NewbornRecord] {
	educ := "educ_" + initial + "_"
	return []ff.Rule[NewbornRecord]{
		ff.Text(role+"_name", func(n NewbornRecord) *string { return get(n).Name }),
		ff.Text(role+"_age", func(n NewbornRecord) *string { return get(n).Age }),
		ff.Text(role+"_occupation", func(n NewbornRecord) *string { return get(n).Occupation }),
		ff.Mark(educ+"hs_level", func(n NewbornRecord) *bool { return get(n).Education.HighSchoolLevel }),
		ff.Mark(educ+"hs_grad", func(n NewbornRecord) *bool { return get(n).Education.HighSchoolGrad }),
		ff.Mark(educ+"col_level", func(n NewbornRecord) *bool { return get(n).Education.CollegeLevel }),
		ff.Mark(educ+"col_grad", func(n NewbornRecord) *bool { return get(n).Education.CollegeGrad }),
	}
}

// BirthPlanTable maps BirthPlanRecord onto template2.pdf.
var BirthPlanTable = ff.Table[BirthPlanRecord]{
	Name: DocBirthPlan,
	Rules: []ff.Rule[BirthPlanRecord]{
		ff.Text("bep_hospital_name", func(b BirthPlanRecord) *string { return b.HospitalName }),
		ff.Mark("bep_cost_nsd", func(b BirthPlanRecord) *bool { return b.Cost.NSD }),
		ff.Mark("bep_cost_cs", func(b BirthPlanRecord) *bool { return b.Cost.CS }),
		ff.Text("bep_vehicle", func(b BirthPlanRecord) *string { return b.Vehicle }),
		ff.Text("bep_transporter", func(b BirthPlanRecord) *string { return b.Transporter }),
		ff.Text("bep_emergency_contact", func(b BirthPlanRecord) *string { return b.EmergencyContact }),
		ff.Text("bep_companion", func(b BirthPlanRecord) *string { return b.Companion }),
		ff.Text("bep_child_watcher", func(b BirthPlanRecord) *string { return b.ChildWatcher }),
		ff.Repeat("donors", BirthPlanDonorRows,
			func(b BirthPlanRecord) []string { return b.Donors },
			ff.Text("bep_donor_{i}", func(s string) *string { return &s }),
		),
		ff.Text("bep_baby_boy", func(b BirthPlanRecord) *string { return b.BabyNameBoy }),
		ff.Text("bep_baby_girl", func(b BirthPlanRecord) *string { return b.BabyNameGirl }),
	},
}

func concat[R any](parts ...[]ff.Rule[R]) []ff.Rule[R] {
	var out []ff.Rule[R]
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
