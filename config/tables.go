package config

type (
	//TableCfg is the container for the names of the files each stage writes
	TableCfg struct {
		Structure StructureTableCfg
		Analysis  AnalysisTableCfg
		Report    ReportTableCfg
	}

	//StructureTableCfg contains the names of the base level tables
	StructureTableCfg struct {
		SessionTable  string `default:"sessions.csv"`
		AttackerTable string `default:"attackers.csv"`
	}

	//AnalysisTableCfg contains the names of the derived tables
	AnalysisTableCfg struct {
		LabeledTable string `default:"attackers_labeled.csv"`
		FeatureTable string `default:"feature_matrix.csv"`
		AnomalyTable string `default:"anomaly_scores.csv"`
	}

	//ReportTableCfg contains the names of the report artifacts
	ReportTableCfg struct {
		IndexFile string `default:"index.html"`
	}
)
