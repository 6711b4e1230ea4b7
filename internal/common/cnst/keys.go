package cnst

// Local store keys, one per collection or singleton config. The disk store
// persists each key as a single serialized blob.
const (
	KeyUsers           = "users"
	KeyProjects        = "projects"
	KeyGems            = "gems"
	KeyTools           = "tools"
	KeyUsedIDs         = "used_ids"
	KeyTrainingModules = "training_modules"
	KeyCompanyConfig   = "company_config"
	KeyCloudSyncConfig = "cloud_sync_config"
)

// Remote table names. Each remote table is shaped (id PRIMARY KEY, content
// json-blob); the fixed 1:1 mapping from collection to table lives here.
const (
	TableUsers           = "app_users"
	TableProjects        = "app_projects"
	TableGems            = "app_gems"
	TableTools           = "app_tools"
	TableUsedIDs         = "app_used_ids"
	TableTrainingModules = "app_training_modules"
	TableConfig          = "app_config"
)

// RemoteTables lists every remote table the schema initializer must create.
var RemoteTables = []string{
	TableUsers,
	TableProjects,
	TableGems,
	TableTools,
	TableUsedIDs,
	TableTrainingModules,
	TableConfig,
}

// ConfigRowID is the fixed row id the company config occupies in app_config.
const ConfigRowID = "global_config"

// Browsable table names as the admin data browser addresses them.
const (
	BrowseUsers    = "USERS"
	BrowseProjects = "PROJECTS"
	BrowseGems     = "GEMS"
	BrowseTools    = "TOOLS"
)
