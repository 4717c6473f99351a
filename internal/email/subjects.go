package email

const subjectManagerAlert = "Lead attention required"
