/*
	Project: Stages - internship placement platform (students, employers, gestionnaires)
	Target: Cégeps
*/
package stages

/*
TODO: sessions (and their selected year) live in the API process; running 2+ API instances needs sticky sessions
TODO: admin: close-offers cmd to reject every pending offer of a past academic year
TODO: teachers: edit & deactivate endpoints

FE:
	- year selector bound to PUT /v1/year, banner from GET /v1/year/banner (204 = no banner)
	- Gestionnaire Dashboard
		* review offers
		* assign teachers to agreements
	- Student Dashboard
	- Employer Dashboard

------------------------------------ Version X ----------------------------------------
FIXME:Edge-case:
- Offer published in July for the next cycle: employers must pick the academic year explicitly
- Agreement spanning two cycles (summer internships) ???
*/
