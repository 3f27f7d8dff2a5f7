package project

const (
	defaultWorkGXL = "# project work.gxl stub\n"
	defaultAdmGXL  = "# project adm.gxl stub\n"
)

// New scaffolds a brand-new project at root: an empty ops-prj.yml
// config, opaque _gal stubs, and a bootstrapped value/value.yml, then
// saves it.
func New(root, name string) (*Project, error) {
	p := &Project{
		Conf:      NewConf(name),
		RootLocal: root,
		WorkGXL:   []byte(defaultWorkGXL),
		AdmGXL:    []byte(defaultAdmGXL),
	}
	dict, err := loadOrBootstrapValueDict(root)
	if err != nil {
		return nil, err
	}
	p.ValDict = dict
	if err := p.Save(); err != nil {
		return nil, err
	}
	return p, nil
}
