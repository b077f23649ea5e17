package mocks

//go:generate mockery --name DirectoryStore --srcpkg github.com/gridbinder-lab/project-gridbinder/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
